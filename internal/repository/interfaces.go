// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/pawmart/internal/model"
)

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// ListAll は全アカウントを取得する。0件の場合は空スライスを返す。
	ListAll(ctx context.Context) ([]*model.Account, error)

	// Create はアカウントを作成する。
	Create(ctx context.Context, account *model.Account) error
}

// ListingRepository はリスティングデータの永続化インターフェース。
type ListingRepository interface {
	// ListAll は全リスティングを取得する。
	ListAll(ctx context.Context) ([]*model.Listing, error)

	// FindByID は指定IDのリスティングを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Listing, error)

	// ListRecent は作成日時の新しい順に最大limit件を取得する。
	ListRecent(ctx context.Context, limit int) ([]*model.Listing, error)

	// ListByOwnerEmail は指定した所有者メールのリスティング一覧を取得する。
	ListByOwnerEmail(ctx context.Context, email string) ([]*model.Listing, error)

	// ListByCategory は指定カテゴリのリスティング一覧を取得する。
	ListByCategory(ctx context.Context, categorySlug string) ([]*model.Listing, error)

	// SearchByName は表示名の大文字小文字を区別しない部分一致で検索する。
	// 空のパターンは全件に一致する。
	SearchByName(ctx context.Context, pattern string) ([]*model.Listing, error)

	// Create はリスティングを作成する。
	Create(ctx context.Context, listing *model.Listing) error

	// Update は指定IDのリスティングを部分更新し、更新件数を返す。
	// attrsは既存のattrsにマージされる。
	Update(ctx context.Context, id string, update model.ListingUpdate) (int64, error)

	// Delete は指定IDのリスティングを削除し、削除件数を返す。
	Delete(ctx context.Context, id string) (int64, error)
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// ListByBuyerEmail は指定した購入者メールの注文一覧を取得する。
	ListByBuyerEmail(ctx context.Context, email string) ([]*model.Order, error)

	// Create は注文を作成する。
	Create(ctx context.Context, order *model.Order) error
}

// SubscriptionRepository はメール購読データの永続化インターフェース。
type SubscriptionRepository interface {
	// Create は購読を作成する。
	Create(ctx context.Context, sub *model.Subscription) error
}
