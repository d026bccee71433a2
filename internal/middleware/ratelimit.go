package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	AuthedRate      rate.Limit    // 認証済みルートのレート（req/sec）
	AuthedBurst     int           // 認証済みルートのバーストサイズ
	PublicRate      rate.Limit    // 公開ルートのレート（req/sec）
	PublicBurst     int           // 公開ルートのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// NewRateLimiterConfig はreq/min単位の値からRateLimiterConfigを生成する。
func NewRateLimiterConfig(authedPerMin, publicPerMin int) RateLimiterConfig {
	return RateLimiterConfig{
		AuthedRate:      rate.Limit(float64(authedPerMin) / 60.0),
		AuthedBurst:     authedPerMin,
		PublicRate:      rate.Limit(float64(publicPerMin) / 60.0),
		PublicBurst:     publicPerMin,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントごとのレート制限を管理する。
// 認証済みルートは検証済みIdentityのメールアドレス、
// 公開ルートはクライアントIPをキーとして制限する。
type RateLimiter struct {
	config RateLimiterConfig

	authedMu       sync.RWMutex
	authedLimiters map[string]*clientLimiter

	publicMu       sync.RWMutex
	publicLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:         config,
		authedLimiters: make(map[string]*clientLimiter),
		publicLimiters: make(map[string]*clientLimiter),
		stopCh:         make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// AuthedMiddleware は認証済みルートのレート制限ミドルウェアを返す。
// リクエストコンテキストにIdentityが含まれている必要がある（認可ゲートの後に配置）。
func (rl *RateLimiter) AuthedMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			limiter := rl.getOrCreate(&rl.authedMu, rl.authedLimiters, identity.Email, rl.config.AuthedRate, rl.config.AuthedBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.AuthedRate)
				slog.Warn("rate limit exceeded",
					slog.String("email", identity.Email),
					slog.String("limit_type", "authed"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PublicMiddleware は公開ルートのレート制限ミドルウェアを返す。
// クライアントIP（RemoteAddrのホスト部）をキーとして制限する。
func (rl *RateLimiter) PublicMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			limiter := rl.getOrCreate(&rl.publicMu, rl.publicLimiters, ip, rl.config.PublicRate, rl.config.PublicBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.PublicRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "public"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthedLimiterCount は現在管理されている認証済みリミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) AuthedLimiterCount() int {
	rl.authedMu.RLock()
	defer rl.authedMu.RUnlock()
	return len(rl.authedLimiters)
}

// PublicLimiterCount は現在管理されている公開リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) PublicLimiterCount() int {
	rl.publicMu.RLock()
	defer rl.publicMu.RUnlock()
	return len(rl.publicLimiters)
}

// getOrCreate は指定キーのリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreate(mu *sync.RWMutex, limiters map[string]*clientLimiter, key string, r rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	cl, exists := limiters[key]
	mu.RUnlock()

	if exists {
		mu.Lock()
		cl.lastAccess = time.Now()
		mu.Unlock()
		return cl.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// ダブルチェック
	if cl, exists := limiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(r, burst)
	limiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.authedMu.Lock()
	for key, cl := range rl.authedLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.authedLimiters, key)
		}
	}
	rl.authedMu.Unlock()

	rl.publicMu.Lock()
	for key, cl := range rl.publicLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.publicLimiters, key)
		}
	}
	rl.publicMu.Unlock()
}

// clientIP はRemoteAddrからクライアントIPを取り出す。
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "rate_limit_exceeded",
		"message":  "Too many requests. Please try again later.",
		"category": "system",
		"action":   "Please wait and retry after the specified time.",
	})
}
