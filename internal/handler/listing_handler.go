package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/pawmart/internal/middleware"
	"github.com/hitoshi/pawmart/internal/model"
)

// ListingServiceInterface はリスティングハンドラーが必要とするサービスインターフェース。
type ListingServiceInterface interface {
	// ListAll は全リスティングを取得する。
	ListAll(ctx context.Context) ([]*model.Listing, error)
	// Get は指定IDのリスティングを取得する。見つからない場合はnilを返す。
	Get(ctx context.Context, id string) (*model.Listing, error)
	// ListRecent は新着リスティングを固定件数だけ取得する。
	ListRecent(ctx context.Context) ([]*model.Listing, error)
	// ListByOwner は所有者別の一覧を取得する（所有権チェック付き）。
	ListByOwner(ctx context.Context, identityEmail, ownerEmail string) ([]*model.Listing, error)
	// ListByCategory はカテゴリ別の一覧を取得する（"all"は全件）。
	ListByCategory(ctx context.Context, categorySlug string) ([]*model.Listing, error)
	// Search は表示名の部分一致で検索する。
	Search(ctx context.Context, query string) ([]*model.Listing, error)
	// Create は新しいリスティングを作成する。
	Create(ctx context.Context, ownerEmail, name, categorySlug string, attrs map[string]any) (*model.Listing, error)
	// Update は指定IDのリスティングを部分更新する（所有権チェック付き）。
	Update(ctx context.Context, identityEmail, id string, update model.ListingUpdate) (int64, error)
	// Delete は指定IDのリスティングを削除する（所有権チェック付き）。
	Delete(ctx context.Context, identityEmail, id string) (int64, error)
}

// ListingHandler はリスティング管理のHTTPハンドラー。
type ListingHandler struct {
	service ListingServiceInterface
}

// NewListingHandler はListingHandlerを生成する。
func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	return &ListingHandler{service: service}
}

// createListingRequest はリスティング作成リクエストの既知フィールド。
type createListingRequest struct {
	Name         string `validate:"required"`
	CategorySlug string
}

// ListListings は全リスティングを取得する。
// GET /listings
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocuments(listings))
}

// GetListing は指定IDのリスティングを取得する。
// 見つからない場合も読み取りは失敗させず、200でnullボディを返す。
// GET /listing/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if listing == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocument(listing))
}

// RecentListings は新着リスティングを新しい順に最大6件取得する。
// GET /recent-products
func (h *ListingHandler) RecentListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListRecent(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocuments(listings))
}

// MyListings は認証済みユーザー自身のリスティング一覧を取得する。
// パスの{email}と検証済みIdentityのメールが一致しない場合は403を返す。
// GET /myListings/{email}
func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	email := chi.URLParam(r, "email")

	listings, err := h.service.ListByOwner(r.Context(), identity.Email, email)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocuments(listings))
}

// DeleteListing は指定IDのリスティングを削除する。
// 所有権チェックはサービス層で行い、所有者以外には403を返す。
// DELETE /myListings/{id}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), identity.Email, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResult{DeletedCount: deleted})
}

// CategoryListings はカテゴリ別のリスティング一覧を取得する。
// カテゴリが"all"（大文字小文字を区別しない）の場合は全件を返す。
// GET /category-filtered-product/{category}
func (h *ListingHandler) CategoryListings(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	listings, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocuments(listings))
}

// SearchListings は表示名の部分一致でリスティングを検索する。
// クエリパラメータsearchが空の場合は全件に一致する。
// GET /search?search=...
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")

	listings, err := h.service.Search(r.Context(), query)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingDocuments(listings))
}

// CreateListing は新しいリスティングを作成する。
// 所有者メールはリクエストボディではなく検証済みIdentityから取る。
// POST /listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	doc, err := decodeDocument(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	req := createListingRequest{
		Name:         popString(doc, "name"),
		CategorySlug: popString(doc, "category_slug"),
	}
	// 所有者はIdentityで決まるため、ボディの値は無視する
	delete(doc, "owner_email")

	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError(validationDetail(err)))
		return
	}

	listing, err := h.service.Create(r.Context(), identity.Email, req.Name, req.CategorySlug, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, insertResult{InsertedCount: 1, InsertedID: listing.ID})
}

// UpdateListing は指定IDのリスティングを部分更新する。
// ボディに含まれるフィールドのみをマージ更新する。
// 所有権チェックはサービス層で行い、所有者以外には403を返す。
// PATCH /updateItem/{id}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	doc, err := decodeDocument(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	update := model.ListingUpdate{}
	if _, ok := doc["name"]; ok {
		name := popString(doc, "name")
		if name == "" {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError("name (required)"))
			return
		}
		update.Name = &name
	}
	if _, ok := doc["category_slug"]; ok {
		category := popString(doc, "category_slug")
		update.CategorySlug = &category
	}

	// 型付きカラムと識別子はボディから変更させない
	delete(doc, "id")
	delete(doc, "owner_email")
	delete(doc, "created_at")
	delete(doc, "updated_at")
	update.Attrs = doc

	modified, err := h.service.Update(r.Context(), identity.Email, id, update)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResult{ModifiedCount: modified})
}
