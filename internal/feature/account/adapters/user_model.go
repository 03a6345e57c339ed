package adapters

import (
	"time"

	"gorm.io/gorm"

	"loyalty_backend/internal/feature/account/domain/entity"
)

// UserModel is the GORM model for the users table.
// DeletedAt is a plain nullable column; visibility is applied explicitly with the Visible scope.
type UserModel struct {
	ID        string `gorm:"primaryKey;type:char(36)"`
	FirstName string `gorm:"size:255"`
	LastName  string `gorm:"size:255"`
	Email     string `gorm:"size:255;not null;index"`
	Province  string `gorm:"size:255"`
	DOB       *time.Time
	Phone     *string `gorm:"size:255;index"`
	Password  *string `gorm:"size:255"`

	FavouriteLocations string `gorm:"size:255"`
	FavouriteProducts  string `gorm:"size:255"`

	SMSNotification       bool
	EmailNotification     bool
	MarketingNotification bool
	NotificationUpdates   bool
	Active                *bool

	AverageOrderValue float64 `gorm:"type:decimal(11,2);not null"`
	TotalOrderValue   float64 `gorm:"type:decimal(11,2);not null"`
	FrequencyOfVisits float64 `gorm:"type:decimal(11,2);not null"`

	Status                  string `gorm:"size:16;index"`
	EmailVerificationStatus bool
	PhoneVerificationStatus bool

	RegisteredFrom string  `gorm:"size:64;index"`
	RegisteredBy   string  `gorm:"size:64;not null"`
	RegisteredByID *string `gorm:"type:char(36)"`

	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null;index"`
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// Visible restricts a query to users that have not been deleted.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("users.deleted_at IS NULL")
}

// NonGuest restricts a query to users that can log in.
func NonGuest(db *gorm.DB) *gorm.DB {
	return db.Where("users.status <> ?", string(entity.StatusGuest))
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	u := &entity.User{
		ID:                      m.ID,
		FirstName:               m.FirstName,
		LastName:                m.LastName,
		Email:                   m.Email,
		Phone:                   m.Phone,
		DOB:                     m.DOB,
		Province:                m.Province,
		FavouriteLocations:      m.FavouriteLocations,
		FavouriteProducts:       m.FavouriteProducts,
		SMSNotification:         m.SMSNotification,
		EmailNotification:       m.EmailNotification,
		MarketingNotification:   m.MarketingNotification,
		NotificationUpdates:     m.NotificationUpdates,
		Active:                  m.Active,
		AverageOrderValue:       m.AverageOrderValue,
		TotalOrderValue:         m.TotalOrderValue,
		FrequencyOfVisits:       m.FrequencyOfVisits,
		Status:                  entity.Status(m.Status),
		EmailVerificationStatus: m.EmailVerificationStatus,
		PhoneVerificationStatus: m.PhoneVerificationStatus,
		RegisteredFrom:          m.RegisteredFrom,
		RegisteredBy:            m.RegisteredBy,
		RegisteredByID:          m.RegisteredByID,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
		DeletedAt:               m.DeletedAt,
	}
	if m.Password != nil {
		u.Password = *m.Password
	}
	return u
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	m := &UserModel{
		ID:                      u.ID,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Email:                   u.Email,
		Phone:                   u.Phone,
		DOB:                     u.DOB,
		Province:                u.Province,
		FavouriteLocations:      u.FavouriteLocations,
		FavouriteProducts:       u.FavouriteProducts,
		SMSNotification:         u.SMSNotification,
		EmailNotification:       u.EmailNotification,
		MarketingNotification:   u.MarketingNotification,
		NotificationUpdates:     u.NotificationUpdates,
		Active:                  u.Active,
		AverageOrderValue:       u.AverageOrderValue,
		TotalOrderValue:         u.TotalOrderValue,
		FrequencyOfVisits:       u.FrequencyOfVisits,
		Status:                  string(u.Status),
		EmailVerificationStatus: u.EmailVerificationStatus,
		PhoneVerificationStatus: u.PhoneVerificationStatus,
		RegisteredFrom:          u.RegisteredFrom,
		RegisteredBy:            u.RegisteredBy,
		RegisteredByID:          u.RegisteredByID,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
		DeletedAt:               u.DeletedAt,
	}
	if u.Password != "" {
		pw := u.Password
		m.Password = &pw
	}
	return m
}

// changesToColumns maps a partial update onto column names.
func changesToColumns(c entity.UserChanges) map[string]any {
	cols := map[string]any{}
	if c.FirstName != nil {
		cols["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		cols["last_name"] = *c.LastName
	}
	if c.Phone != nil {
		cols["phone"] = *c.Phone
	}
	if c.DOB != nil {
		cols["dob"] = *c.DOB
	}
	if c.Province != nil {
		cols["province"] = *c.Province
	}
	if c.Password != nil {
		cols["password"] = *c.Password
	}
	if c.FavouriteLocations != nil {
		cols["favourite_locations"] = *c.FavouriteLocations
	}
	if c.FavouriteProducts != nil {
		cols["favourite_products"] = *c.FavouriteProducts
	}
	if c.SMSNotification != nil {
		cols["sms_notification"] = *c.SMSNotification
	}
	if c.EmailNotification != nil {
		cols["email_notification"] = *c.EmailNotification
	}
	if c.MarketingNotification != nil {
		cols["marketing_notification"] = *c.MarketingNotification
	}
	if c.NotificationUpdates != nil {
		cols["notification_updates"] = *c.NotificationUpdates
	}
	if c.Status != nil {
		cols["status"] = string(*c.Status)
	}
	if c.EmailVerificationStatus != nil {
		cols["email_verification_status"] = *c.EmailVerificationStatus
	}
	if c.PhoneVerificationStatus != nil {
		cols["phone_verification_status"] = *c.PhoneVerificationStatus
	}
	return cols
}
