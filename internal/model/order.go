package model

import "time"

// Order は購入注文を表す。
// 注文の明細（対象リスティング、価格、配送先等）はAttrsに保持する。
// 参照先のリスティングが削除されていても注文は残る（外部キー整合性は強制しない）。
type Order struct {
	ID         string
	BuyerEmail string
	Attrs      map[string]any
	CreatedAt  time.Time
}
