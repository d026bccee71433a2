package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// 接続プールの上限。リスティング一覧や検索など短命なクエリが中心のため、
// 控えめな値で十分に捌ける。
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Open はPostgreSQLへの接続プールを開き、プール設定を適用して返す。
// sql.Openは実際の接続を確立しない。DATABASE_URLが未設定の場合でも
// Openは成功し、クエリ実行時に初めて接続エラーが表面化する。
// 到達性の確認にはdb.PingContextを使用すること。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗しました: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
