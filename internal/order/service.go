// Package order は注文作成・購入者別一覧のビジネスロジックを提供する。
package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/pawmart/internal/model"
	"github.com/hitoshi/pawmart/internal/repository"
)

// Service は注文に関するビジネスロジックを提供する。
type Service struct {
	repo repository.OrderRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.OrderRepository) *Service {
	return &Service{repo: repo}
}

// ListByBuyer は指定した購入者メールの注文一覧を取得する。
// 検証済みIdentityのメールアドレスと購入者メールが一致しない場合は
// FORBIDDEN_OWNERを返し、ストレージには一切アクセスしない。
func (s *Service) ListByBuyer(ctx context.Context, identityEmail, buyerEmail string) ([]*model.Order, error) {
	if identityEmail != buyerEmail {
		return nil, model.NewForbiddenOwnerError()
	}
	return s.repo.ListByBuyerEmail(ctx, buyerEmail)
}

// Place は新しい注文を作成する。
// 注文が参照するリスティングの存在は検証しない（外部キー整合性は強制しない）。
func (s *Service) Place(ctx context.Context, buyerEmail string, attrs map[string]any) (*model.Order, error) {
	order := &model.Order{
		ID:         uuid.New().String(),
		BuyerEmail: buyerEmail,
		Attrs:      attrs,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
