package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/pawmart/internal/middleware"
	"github.com/hitoshi/pawmart/internal/model"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	// ListByBuyer は購入者別の注文一覧を取得する（所有権チェック付き）。
	ListByBuyer(ctx context.Context, identityEmail, buyerEmail string) ([]*model.Order, error)
	// Place は新しい注文を作成する。
	Place(ctx context.Context, buyerEmail string, attrs map[string]any) (*model.Order, error)
}

// OrderHandler は注文管理のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// MyOrders は認証済みユーザー自身の注文一覧を取得する。
// パスの{email}と検証済みIdentityのメールが一致しない場合は403を返す。
// GET /myOrders/{email}
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	email := chi.URLParam(r, "email")

	orders, err := h.service.ListByBuyer(r.Context(), identity.Email, email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	docs := make([]map[string]any, len(orders))
	for i, o := range orders {
		docs[i] = toOrderDocument(o)
	}
	writeJSON(w, http.StatusOK, docs)
}

// PlaceOrder は新しい注文を作成する。
// 購入者メールはリクエストボディではなく検証済みIdentityから取る。
// POST /orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
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

	// 購入者はIdentityで決まるため、ボディの値は無視する
	delete(doc, "buyer_email")

	order, err := h.service.Place(r.Context(), identity.Email, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, insertResult{InsertedCount: 1, InsertedID: order.ID})
}
