// Package listing はリスティングのCRUD・検索・所有権チェックのビジネスロジックを提供する。
package listing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/pawmart/internal/model"
	"github.com/hitoshi/pawmart/internal/repository"
	"github.com/hitoshi/pawmart/internal/security"
)

// RecentLimit は新着リスティング一覧の固定件数。
const RecentLimit = 6

// attrDescription はサニタイズ対象の説明文フィールド名。
const attrDescription = "description"

// Service はリスティングに関するビジネスロジックを提供する。
// 所有権が必要な操作（所有者別一覧、更新、削除）は検証済みIdentityの
// メールアドレスと突き合わせ、不一致の場合はストレージアクセスの前に拒否する。
type Service struct {
	repo      repository.ListingRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.ListingRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// ListAll は全リスティングを取得する。
func (s *Service) ListAll(ctx context.Context) ([]*model.Listing, error) {
	return s.repo.ListAll(ctx)
}

// Get は指定IDのリスティングを取得する。
// 読み取りは0件であることを理由に失敗しない。見つからない場合は
// エラーではなくnilを返し、ハンドラーがnullボディとして応答する。
func (s *Service) Get(ctx context.Context, id string) (*model.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

// ListRecent は作成日時の新しい順に最大RecentLimit件を取得する。
func (s *Service) ListRecent(ctx context.Context) ([]*model.Listing, error) {
	return s.repo.ListRecent(ctx, RecentLimit)
}

// ListByOwner は指定した所有者メールのリスティング一覧を取得する。
// 検証済みIdentityのメールアドレスと所有者メールが一致しない場合は
// FORBIDDEN_OWNERを返し、ストレージには一切アクセスしない。
func (s *Service) ListByOwner(ctx context.Context, identityEmail, ownerEmail string) ([]*model.Listing, error) {
	if identityEmail != ownerEmail {
		return nil, model.NewForbiddenOwnerError()
	}
	return s.repo.ListByOwnerEmail(ctx, ownerEmail)
}

// ListByCategory は指定カテゴリのリスティング一覧を取得する。
// カテゴリが"all"（大文字小文字を区別しない）の場合は全件を返す。
func (s *Service) ListByCategory(ctx context.Context, categorySlug string) ([]*model.Listing, error) {
	if strings.EqualFold(categorySlug, model.CategoryAll) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByCategory(ctx, categorySlug)
}

// Search は表示名の大文字小文字を区別しない部分一致で検索する。
// 空のクエリは全件に一致する。
func (s *Service) Search(ctx context.Context, query string) ([]*model.Listing, error) {
	return s.repo.SearchByName(ctx, query)
}

// Create は新しいリスティングを作成する。
// IDを採番し、説明文（attrs.description）をサニタイズしてから保存する。
func (s *Service) Create(ctx context.Context, ownerEmail, name, categorySlug string, attrs map[string]any) (*model.Listing, error) {
	now := time.Now()
	listing := &model.Listing{
		ID:           uuid.New().String(),
		OwnerEmail:   ownerEmail,
		Name:         name,
		CategorySlug: categorySlug,
		Attrs:        s.sanitizeAttrs(attrs),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Update は指定IDのリスティングを部分更新し、更新件数を返す。
// 更新前にレコードを取得し、所有者メールと検証済みIdentityのメールが
// 一致しない場合はFORBIDDEN_OWNERを返す。
func (s *Service) Update(ctx context.Context, identityEmail, id string, update model.ListingUpdate) (int64, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if listing == nil {
		return 0, model.NewListingNotFoundError(id)
	}
	if listing.OwnerEmail != identityEmail {
		return 0, model.NewForbiddenOwnerError()
	}

	update.Attrs = s.sanitizeAttrs(update.Attrs)
	return s.repo.Update(ctx, id, update)
}

// Delete は指定IDのリスティングを削除し、削除件数を返す。
// Updateと同様に削除前の所有権チェックを行う。
func (s *Service) Delete(ctx context.Context, identityEmail, id string) (int64, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if listing == nil {
		return 0, model.NewListingNotFoundError(id)
	}
	if listing.OwnerEmail != identityEmail {
		return 0, model.NewForbiddenOwnerError()
	}

	return s.repo.Delete(ctx, id)
}

// sanitizeAttrs はattrs内の説明文フィールドをサニタイズする。
// その他のフィールドは変更しない。
func (s *Service) sanitizeAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	if desc, ok := attrs[attrDescription].(string); ok {
		attrs[attrDescription] = s.sanitizer.Sanitize(desc)
	}
	return attrs
}
