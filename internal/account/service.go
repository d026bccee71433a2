// Package account はアカウント登録・一覧のビジネスロジックを提供する。
package account

import (
	"context"
	"time"

	"github.com/hitoshi/pawmart/internal/model"
	"github.com/hitoshi/pawmart/internal/repository"
)

// Service はアカウントに関するビジネスロジックを提供する。
type Service struct {
	repo repository.AccountRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.AccountRepository) *Service {
	return &Service{repo: repo}
}

// ListAll は全アカウントを取得する。
func (s *Service) ListAll(ctx context.Context) ([]*model.Account, error) {
	return s.repo.ListAll(ctx)
}

// Register は新しいアカウントを登録する。
// IDは外部IdPが割り当てた識別子をそのまま使用する。
// アカウントはこのシステムから更新・削除されることはない。
func (s *Service) Register(ctx context.Context, id, email, name string, attrs map[string]any) (*model.Account, error) {
	account := &model.Account{
		ID:        id,
		Email:     email,
		Name:      name,
		Attrs:     attrs,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
