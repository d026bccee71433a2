package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/pawmart/internal/model"
)

// listingColumns はリスティング取得クエリで共通のSELECT列。
const listingColumns = `id, owner_email, name, category_slug, attrs, created_at, updated_at`

// PostgresListingRepo はPostgreSQLを使用したリスティングリポジトリ。
type PostgresListingRepo struct {
	db *sql.DB
}

// NewPostgresListingRepo はPostgresListingRepoを生成する。
func NewPostgresListingRepo(db *sql.DB) *PostgresListingRepo {
	return &PostgresListingRepo{db: db}
}

// scanListing は1行分のリスティングを読み取る。
func scanListing(scan func(dest ...any) error) (*model.Listing, error) {
	listing := &model.Listing{}
	var rawAttrs []byte
	if err := scan(
		&listing.ID, &listing.OwnerEmail, &listing.Name, &listing.CategorySlug,
		&rawAttrs, &listing.CreatedAt, &listing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	attrs, err := unmarshalAttrs(rawAttrs)
	if err != nil {
		return nil, err
	}
	listing.Attrs = attrs
	return listing, nil
}

// queryListings はリスティングの一覧クエリを実行し、結果を読み取る。
func (r *PostgresListingRepo) queryListings(ctx context.Context, query string, args ...any) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("リスティング一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	listings := []*model.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("リスティング行の読み取りに失敗しました: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("リスティング一覧の走査に失敗しました: %w", err)
	}
	return listings, nil
}

// ListAll は全リスティングを作成日時の昇順で取得する。
func (r *PostgresListingRepo) ListAll(ctx context.Context) ([]*model.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at ASC`,
	)
}

// FindByID は指定IDのリスティングを取得する。見つからない場合はnilを返す。
// idがUUIDとして不正な場合はストレージ層のエラーがそのまま返る。
func (r *PostgresListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`,
		id,
	)

	listing, err := scanListing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("リスティングの取得に失敗しました: %w", err)
	}
	return listing, nil
}

// ListRecent は作成日時の新しい順に最大limit件を取得する。
func (r *PostgresListingRepo) ListRecent(ctx context.Context, limit int) ([]*model.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
}

// ListByOwnerEmail は指定した所有者メールのリスティング一覧を取得する。
func (r *PostgresListingRepo) ListByOwnerEmail(ctx context.Context, email string) ([]*model.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE owner_email = $1 ORDER BY created_at ASC`,
		email,
	)
}

// ListByCategory は指定カテゴリのリスティング一覧を取得する。
// カテゴリ値は完全一致で比較する。
func (r *PostgresListingRepo) ListByCategory(ctx context.Context, categorySlug string) ([]*model.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE category_slug = $1 ORDER BY created_at ASC`,
		categorySlug,
	)
}

// SearchByName は表示名の大文字小文字を区別しない部分一致で検索する。
// 空のパターンは全件に一致する（ILIKE '%%'）。
func (r *PostgresListingRepo) SearchByName(ctx context.Context, pattern string) ([]*model.Listing, error) {
	return r.queryListings(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at ASC`,
		pattern,
	)
}

// Create はリスティングを作成する。
func (r *PostgresListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	rawAttrs, err := marshalAttrs(listing.Attrs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO listings (id, owner_email, name, category_slug, attrs, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		listing.ID, listing.OwnerEmail, listing.Name, listing.CategorySlug,
		rawAttrs, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("リスティングの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定IDのリスティングを部分更新し、更新件数を返す。
// nilのフィールドは既存値を維持し、attrsは既存のattrsにマージ（||）する。
func (r *PostgresListingRepo) Update(ctx context.Context, id string, update model.ListingUpdate) (int64, error) {
	rawAttrs, err := marshalAttrs(update.Attrs)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE listings
		 SET name          = COALESCE($2, name),
		     category_slug = COALESCE($3, category_slug),
		     attrs         = attrs || $4,
		     updated_at    = NOW()
		 WHERE id = $1`,
		id, update.Name, update.CategorySlug, rawAttrs,
	)
	if err != nil {
		return 0, fmt.Errorf("リスティングの更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	return affected, nil
}

// Delete は指定IDのリスティングを削除し、削除件数を返す。
func (r *PostgresListingRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM listings WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("リスティングの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return affected, nil
}

// compile-time interface check
var _ ListingRepository = (*PostgresListingRepo)(nil)
