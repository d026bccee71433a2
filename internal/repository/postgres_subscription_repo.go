package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/pawmart/internal/model"
)

// PostgresSubscriptionRepo はPostgreSQLを使用したメール購読リポジトリ。
type PostgresSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionRepo はPostgresSubscriptionRepoを生成する。
func NewPostgresSubscriptionRepo(db *sql.DB) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{db: db}
}

// Create は購読を作成する。
// このシステムは購読を読み出さないため、書き込み操作のみを提供する。
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	rawAttrs, err := marshalAttrs(sub.Attrs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, attrs, created_at)
		 VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.Email, rawAttrs, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("購読の作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
