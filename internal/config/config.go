// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	// 未設定の場合もプロセスは起動し、データ系ルートが実行時にエラーを返す。
	DatabaseURL string

	// Auth
	// IdP発行の資格情報バンドル（base64エンコードされたJSON）。
	// 未設定の場合もプロセスは起動し、保護ルートが503を返す。
	AuthServiceKey string

	// Rate Limit（req/min単位）
	RateLimitAuthed int
	RateLimitPublic int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
//
// DATABASE_URLとAUTH_SERVICE_KEYは意図的に必須としない。
// どちらが欠けていてもプロセスは起動し、影響を受けるルートだけが
// 明示的なエラーレスポンスに縮退する。欠落は警告ログに記録する。
func Load() *Config {
	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set; data routes will fail at runtime")
	}

	cfg.AuthServiceKey = os.Getenv("AUTH_SERVICE_KEY")
	if cfg.AuthServiceKey == "" {
		slog.Warn("AUTH_SERVICE_KEY is not set; protected routes will return 503")
	}

	cfg.RateLimitAuthed = getEnvInt("RATE_LIMIT_AUTHED", 120)
	cfg.RateLimitPublic = getEnvInt("RATE_LIMIT_PUBLIC", 300)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
