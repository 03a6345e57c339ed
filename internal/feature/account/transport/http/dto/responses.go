package dto

import (
	"time"

	"loyalty_backend/internal/feature/account/domain/entity"
)

// ErrorResponse はエラー応答です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は本文を持たない成功応答です。
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse はクライアントに返すユーザーです。パスワードハッシュを含みません。
type UserResponse struct {
	entity.ClientUser
}

// NewUserResponse はエンティティから UserResponse を生成します。
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{ClientUser: u.ToClient()}
}

// LoginResponse はログイン成功時の応答です。
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PendingUpdateResponse は確認待ちのプロフィール変更です。値は含めません。
type PendingUpdateResponse struct {
	ValueType string    `json:"value_type"`
	Expiry    time.Time `json:"expiry"`
}

// MeResponse は /me の応答です。
type MeResponse struct {
	User           UserResponse            `json:"user"`
	PendingUpdates []PendingUpdateResponse `json:"pending_updates"`
}
