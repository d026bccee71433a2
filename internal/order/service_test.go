package order

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/pawmart/internal/model"
)

// mockOrderRepo はOrderRepositoryのモック実装。
type mockOrderRepo struct {
	listByBuyerEmailFn func(ctx context.Context, email string) ([]*model.Order, error)
	createFn           func(ctx context.Context, order *model.Order) error
}

func (m *mockOrderRepo) ListByBuyerEmail(ctx context.Context, email string) ([]*model.Order, error) {
	if m.listByBuyerEmailFn != nil {
		return m.listByBuyerEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	return nil
}

func TestService_ListByBuyer_OwnerMismatch(t *testing.T) {
	repoCalled := false
	repo := &mockOrderRepo{
		listByBuyerEmailFn: func(ctx context.Context, email string) ([]*model.Order, error) {
			repoCalled = true
			return nil, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.ListByBuyer(context.Background(), "alice@example.com", "bob@example.com")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbiddenOwner {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeForbiddenOwner)
	}
	// 所有権違反時はストレージへアクセスしない
	if repoCalled {
		t.Error("repository was called despite ownership mismatch")
	}
}

func TestService_ListByBuyer_Match(t *testing.T) {
	repo := &mockOrderRepo{
		listByBuyerEmailFn: func(ctx context.Context, email string) ([]*model.Order, error) {
			if email != "alice@example.com" {
				t.Errorf("email = %q, want %q", email, "alice@example.com")
			}
			return []*model.Order{{ID: "order-1"}}, nil
		},
	}
	svc := NewService(repo)

	orders, err := svc.ListByBuyer(context.Background(), "alice@example.com", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("orders length = %d, want 1", len(orders))
	}
}

func TestService_Place_AssignsIDAndBuyer(t *testing.T) {
	var created *model.Order
	repo := &mockOrderRepo{
		createFn: func(ctx context.Context, order *model.Order) error {
			created = order
			return nil
		},
	}
	svc := NewService(repo)

	order, err := svc.Place(context.Background(), "alice@example.com", map[string]any{"listing_id": "listing-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID == "" {
		t.Error("ID was not assigned")
	}
	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.BuyerEmail != "alice@example.com" {
		t.Errorf("buyer_email = %q, want %q", created.BuyerEmail, "alice@example.com")
	}
	if created.Attrs["listing_id"] != "listing-1" {
		t.Errorf("listing_id = %v, want %q", created.Attrs["listing_id"], "listing-1")
	}
}
