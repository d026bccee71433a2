package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/pawmart/internal/model"
)

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// ListByBuyerEmail は指定した購入者メールの注文一覧を作成日時の昇順で取得する。
func (r *PostgresOrderRepo) ListByBuyerEmail(ctx context.Context, email string) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_email, attrs, created_at
		 FROM orders WHERE buyer_email = $1 ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("注文一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		order := &model.Order{}
		var rawAttrs []byte
		if err := rows.Scan(&order.ID, &order.BuyerEmail, &rawAttrs, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("注文行の読み取りに失敗しました: %w", err)
		}
		if order.Attrs, err = unmarshalAttrs(rawAttrs); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("注文一覧の走査に失敗しました: %w", err)
	}
	return orders, nil
}

// Create は注文を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.Order) error {
	rawAttrs, err := marshalAttrs(order.Attrs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, buyer_email, attrs, created_at)
		 VALUES ($1, $2, $3, $4)`,
		order.ID, order.BuyerEmail, rawAttrs, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("注文の作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
