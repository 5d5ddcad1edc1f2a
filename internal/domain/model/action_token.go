package model

import "time"

// トークンの用途。署名方式は共通で、有効期限だけ違う
type TokenPurpose string

const (
	TokenPurposeAccess       TokenPurpose = "access"
	TokenPurposeRefresh      TokenPurpose = "refresh"
	TokenPurposeVerification TokenPurpose = "verify_email"
	TokenPurposeReset        TokenPurpose = "reset_password"
)

// 検証済みトークンの中身（保存はしない）
type ActionToken struct {
	ID        string
	Subject   string // username
	Purpose   TokenPurpose
	Email     string // 認証トークンだけ。発行時の宛先
	IssuedAt  time.Time
	ExpiresAt time.Time
}
