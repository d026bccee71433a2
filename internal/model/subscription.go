package model

import "time"

// Subscription はメールマガジンの購読登録を表す。
// 登録のみで、このシステムから読み出されることはない。
type Subscription struct {
	ID        string
	Email     string
	Attrs     map[string]any
	CreatedAt time.Time
}
