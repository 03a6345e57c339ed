package adapters

import (
	"time"

	"loyalty_backend/internal/feature/presence/domain/entity"
)

// PresenceModel は user_locations テーブルの GORM モデルです。
type PresenceModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	UserID         string `gorm:"type:char(36);not null;uniqueIndex:idx_user_locations_user_location"`
	LocationID     string `gorm:"size:64;not null;uniqueIndex:idx_user_locations_user_location"`
	ActivityStatus bool   `gorm:"not null"`
	InStore        bool   `gorm:"not null"`
	LastSeen       *time.Time
	LastActivity   *time.Time `gorm:"index"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null;index"`
}

// TableName は GORM 用のテーブル名を返します。
func (PresenceModel) TableName() string {
	return "user_locations"
}

// Models はマイグレーション対象のプレゼンスモデルを返します。
func Models() []any {
	return []any{&PresenceModel{}}
}

// ToEntity は GORM モデルをドメインエンティティに変換します。
func (m *PresenceModel) ToEntity() entity.PresenceRecord {
	return entity.PresenceRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		LocationID:     m.LocationID,
		ActivityStatus: m.ActivityStatus,
		InStore:        m.InStore,
		LastSeen:       m.LastSeen,
		LastActivity:   m.LastActivity,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ownerRow はプレゼンスイベントに載せる users テーブルのカラムを読み取ります。
type ownerRow struct {
	ID                      string
	FirstName               string
	LastName                string
	Email                   string
	Phone                   *string
	Status                  string
	EmailVerificationStatus bool
	DOB                     *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
	SMSNotification         bool
	EmailNotification       bool
	MarketingNotification   bool
	TotalOrderValue         float64
	AverageOrderValue       float64
	FrequencyOfVisits       float64
}

func (ownerRow) TableName() string {
	return "users"
}

var ownerColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "status", "email_verification_status", "dob",
	"created_at", "updated_at", "sms_notification", "email_notification", "marketing_notification",
	"total_order_value", "average_order_value", "frequency_of_visits",
}

func (o *ownerRow) toSnapshot() *entity.UserSnapshot {
	return &entity.UserSnapshot{
		ID:                      o.ID,
		FirstName:               o.FirstName,
		LastName:                o.LastName,
		Email:                   o.Email,
		Phone:                   o.Phone,
		Status:                  o.Status,
		EmailVerificationStatus: o.EmailVerificationStatus,
		DOB:                     o.DOB,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
		SMSNotification:         o.SMSNotification,
		EmailNotification:       o.EmailNotification,
		MarketingNotification:   o.MarketingNotification,
		TotalOrderValue:         o.TotalOrderValue,
		AverageOrderValue:       o.AverageOrderValue,
		FrequencyOfVisits:       o.FrequencyOfVisits,
	}
}
