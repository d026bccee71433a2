// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/pawmart/internal/auth"
	"github.com/hitoshi/pawmart/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに検証済みIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// NewAuthMiddleware はベアラートークンを検証する認可ゲートを返す。
//
// 判定は3段階で、それぞれ別のエラーとして区別する:
//  1. verifierがnil（資格情報バンドル未設定）→ 503 AUTH_NOT_CONFIGURED
//  2. Authorizationヘッダーなし → 401 UNAUTHORIZED
//  3. トークン検証失敗（署名・期限・クレーム）→ 403 INVALID_TOKEN
//
// 検証に成功した場合はIdentityをリクエストコンテキストに注入する。
// 検証はリクエストごとに1回のみで、結果のキャッシュやリトライは行わない。
func NewAuthMiddleware(verifier auth.TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. 認証基盤の未初期化は資格情報エラーと混同しない
			if verifier == nil {
				WriteErrorResponse(w, http.StatusServiceUnavailable, model.NewAuthNotConfiguredError())
				return
			}

			// 2. ヘッダーからトークンを抽出（"<scheme> <token>"の第2フィールド）
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			fields := strings.Fields(header)
			if len(fields) < 2 {
				WriteErrorResponse(w, http.StatusForbidden, model.NewInvalidTokenError())
				return
			}

			// 3. 外部IdPの検証能力に委譲する
			identity, err := verifier.Verify(r.Context(), fields[1])
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusForbidden, model.NewInvalidTokenError())
				return
			}

			// 4. 検証済みIdentityをコンテキストに注入。
			// 外側のロギングミドルウェアが仕込んだholderにも書き込み、
			// 導出コンテキストの外からも参照できるようにする
			if holder, ok := r.Context().Value(identityHolderKey).(*identityHolder); ok {
				holder.identity = identity
			}
			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから検証済みIdentityを取得する。
// 認可ゲートを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*auth.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*auth.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに検証済みIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
