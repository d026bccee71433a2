package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/pawmart/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// ListAll は全アカウントを取得する。
	ListAll(ctx context.Context) ([]*model.Account, error)
	// Register は新しいアカウントを登録する。
	Register(ctx context.Context, id, email, name string, attrs map[string]any) (*model.Account, error)
}

// AccountHandler はアカウント管理のHTTPハンドラー。
type AccountHandler struct {
	service AccountServiceInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// createAccountRequest はアカウント登録リクエストの既知フィールド。
// IDは外部IdPが割り当てた識別子で必須。
type createAccountRequest struct {
	ID    string `validate:"required"`
	Email string `validate:"required,email"`
	Name  string
}

// ListAccounts は全アカウントを取得する。
// GET /users
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	docs := make([]map[string]any, len(accounts))
	for i, a := range accounts {
		docs[i] = toAccountDocument(a)
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": docs})
}

// RegisterAccount は新しいアカウントを登録する。
// POST /users（公開ルート: IdPでのサインアップ直後に呼ばれる）
func (h *AccountHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	req := createAccountRequest{
		ID:    popString(doc, "id"),
		Email: popString(doc, "email"),
		Name:  popString(doc, "name"),
	}
	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError(validationDetail(err)))
		return
	}

	account, err := h.service.Register(r.Context(), req.ID, req.Email, req.Name, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": insertResult{InsertedCount: 1, InsertedID: account.ID},
	})
}
