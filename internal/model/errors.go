package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, marketplace, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthNotConfigured = "AUTH_NOT_CONFIGURED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInvalidToken      = "INVALID_TOKEN"
	ErrCodeForbiddenOwner    = "FORBIDDEN_OWNER"
	ErrCodeListingNotFound   = "LISTING_NOT_FOUND"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
)

// NewAuthNotConfiguredError は認証基盤が未初期化の場合のエラーを生成する。
// 資格情報の不備（401/403）とは区別し、503として扱う。
func NewAuthNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthNotConfigured,
		Message:  "認証サービスが初期化されていません。",
		Category: "system",
		Action:   "サーバー管理者に連絡してください。",
	}
}

// NewUnauthorizedError はAuthorizationヘッダーが存在しない場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "Authorizationヘッダーにベアラートークンを設定してください。",
	}
}

// NewInvalidTokenError はトークン検証に失敗した場合のエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効または期限切れです。",
		Category: "auth",
		Action:   "再度ログインしてトークンを取得し直してください。",
	}
}

// NewForbiddenOwnerError は認証済みユーザーがリソースの所有者でない場合のエラーを生成する。
func NewForbiddenOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeForbiddenOwner,
		Message:  "このリソースへのアクセス権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースのみ操作できます。",
	}
}

// NewListingNotFoundError はリスティングが見つからない場合のエラーを生成する。
func NewListingNotFoundError(listingID string) *APIError {
	return &APIError{
		Code:     ErrCodeListingNotFound,
		Message:  fmt.Sprintf("指定されたリスティングが見つかりません: %s", listingID),
		Category: "marketplace",
		Action:   "リスティングIDを確認してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析に失敗した場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewValidationFailedError はリクエストボディの検証に失敗した場合のエラーを生成する。
func NewValidationFailedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("リクエスト内容が不正です: %s", detail),
		Category: "validation",
		Action:   "必須フィールドとメールアドレスの形式を確認してください。",
	}
}
