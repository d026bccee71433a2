// Package subscription はメールマガジン購読登録のビジネスロジックを提供する。
package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/pawmart/internal/model"
	"github.com/hitoshi/pawmart/internal/repository"
)

// Service はメール購読に関するビジネスロジックを提供する。
type Service struct {
	repo repository.SubscriptionRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.SubscriptionRepository) *Service {
	return &Service{repo: repo}
}

// Subscribe は新しい購読を登録する。
// 重複チェックは行わない。同一メールの再登録は新しいレコードになる。
func (s *Service) Subscribe(ctx context.Context, email string, attrs map[string]any) (*model.Subscription, error) {
	sub := &model.Subscription{
		ID:        uuid.New().String(),
		Email:     email,
		Attrs:     attrs,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
