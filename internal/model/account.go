// Package model はドメインモデルを定義する。
package model

import "time"

// Account はマーケットプレイスの利用者アカウントを表す。
// IDは外部IdPが割り当てた識別子をそのまま使用する。
// Attrsには登録時に送信された追加フィールドを保持する（スキーマ固定なし）。
type Account struct {
	ID        string
	Email     string
	Name      string
	Attrs     map[string]any
	CreatedAt time.Time
}
