package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/pawmart/internal/model"
)

// SubscriptionServiceInterface は購読ハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	// Subscribe は新しいメール購読を登録する。
	Subscribe(ctx context.Context, email string, attrs map[string]any) (*model.Subscription, error)
}

// SubscriptionHandler はメール購読のHTTPハンドラー。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// subscribeRequest は購読登録リクエストの既知フィールド。
type subscribeRequest struct {
	Email string `validate:"required,email"`
}

// Subscribe は新しいメール購読を登録する。
// POST /subscription
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	req := subscribeRequest{Email: popString(doc, "email")}
	if err := validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationFailedError(validationDetail(err)))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req.Email, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, insertResult{InsertedCount: 1, InsertedID: sub.ID})
}
