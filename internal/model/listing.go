package model

import "time"

// CategoryAll はカテゴリフィルタで全件を意味するセンチネル値。
// 大文字小文字は区別しない。
const CategoryAll = "all"

// Listing は出品された商品リスティングを表す。
// 型付きカラム（所有者メール、表示名、カテゴリ）以外の任意フィールドはAttrsに保持する。
type Listing struct {
	ID           string
	OwnerEmail   string
	Name         string
	CategorySlug string
	Attrs        map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingUpdate はリスティングの部分更新を表す。
// nilのフィールドは変更しない。Attrsは既存のattrsにマージされる。
type ListingUpdate struct {
	Name         *string
	CategorySlug *string
	Attrs        map[string]any
}
