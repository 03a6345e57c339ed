// Package dto はaccountフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "time"

// SignupReq は/signupエンドポイントのリクエストボディを表します。
type SignupReq struct {
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=8"`
	Phone     *string    `json:"phone"`
	DOB       *time.Time `json:"dob"`
	Province  string     `json:"province"`

	SMSNotification       *bool `json:"sms_notification"`
	EmailNotification     *bool `json:"email_notification"`
	MarketingNotification *bool `json:"marketing_notification"`
}

// GuestReq は店舗スタッフがゲストを登録するリクエストです。パスワードは受け付けません。
type GuestReq struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
}

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LookupReq はパスワードレスログイン用の検索リクエストです。
// email と phone のどちらか一方を指定します（email が優先）。
type LookupReq struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// UpdateMeReq はプロフィールの部分更新リクエストです。nil のフィールドは変更しません。
type UpdateMeReq struct {
	FirstName          *string    `json:"first_name"`
	LastName           *string    `json:"last_name"`
	Phone              *string    `json:"phone"`
	DOB                *time.Time `json:"dob"`
	Province           *string    `json:"province"`
	Password           *string    `json:"password" binding:"omitempty,min=8"`
	FavouriteLocations *string    `json:"favourite_locations"`
	FavouriteProducts  *string    `json:"favourite_products"`

	SMSNotification       *bool `json:"sms_notification"`
	EmailNotification     *bool `json:"email_notification"`
	MarketingNotification *bool `json:"marketing_notification"`
	NotificationUpdates   *bool `json:"notification_updates"`
}
