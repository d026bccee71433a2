// Package auth は外部IdP発行のベアラートークンの検証を提供する。
//
// IdPが発行する資格情報バンドル（base64エンコードされたJSON）から検証器を
// 初期化し、リクエストごとにトークンを1回だけ検証する。検証結果のキャッシュや
// リトライは行わない。
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity はトークン検証に成功した呼び出し元の身元を表す。
type Identity struct {
	// Subject はIdPが割り当てたユーザー識別子。
	Subject string
	// Email は所有権チェックに使用するメールアドレスクレーム。
	Email string
	// Name は表示名（存在する場合）。
	Name string
}

// TokenVerifier はベアラートークンの検証インターフェース。
type TokenVerifier interface {
	// Verify はトークンを検証し、成功時は検証済みのIdentityを返す。
	// 失敗（署名不正、期限切れ、emailクレーム欠落等）の場合はエラーを返す。
	Verify(ctx context.Context, token string) (*Identity, error)
}

// credentialBundle はIdPが発行する資格情報バンドルの中身。
type credentialBundle struct {
	Issuer   string `json:"issuer"`
	Audience string `json:"audience"`
	Secret   string `json:"secret"`
}

// idTokenClaims はIDトークンのクレーム。
type idTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// JWTVerifier はHS256署名のIDトークンを検証するTokenVerifier実装。
type JWTVerifier struct {
	issuer   string
	audience string
	secret   []byte
}

// NewVerifierFromBundle はbase64エンコードされた資格情報バンドルから
// JWTVerifierを生成する。デコードやパースに失敗した場合はエラーを返す。
// 呼び出し側はエラー時に検証器をnilのまま運用し、保護ルートを503に縮退させる。
func NewVerifierFromBundle(encoded string) (*JWTVerifier, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential bundle: %w", err)
	}

	var bundle credentialBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse credential bundle: %w", err)
	}

	if bundle.Secret == "" {
		return nil, fmt.Errorf("credential bundle has no secret")
	}

	return &JWTVerifier{
		issuer:   bundle.Issuer,
		audience: bundle.Audience,
		secret:   []byte(bundle.Secret),
	}, nil
}

// Verify はトークンの署名・有効期限・発行者を検証する。
// emailクレームを持たないトークンは所有権チェックが成立しないため無効として扱う。
func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// compile-time interface check
var _ TokenVerifier = (*JWTVerifier)(nil)
