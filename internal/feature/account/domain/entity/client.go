package entity

import "time"

// ClientUser is the external-facing view of a user. It has no credential field,
// so nothing built from it can leak the password hash.
type ClientUser struct {
	ID                      string     `json:"id"`
	FirstName               string     `json:"first_name"`
	LastName                string     `json:"last_name"`
	Email                   string     `json:"email"`
	Phone                   *string    `json:"phone"`
	DOB                     *time.Time `json:"dob"`
	Province                string     `json:"province"`
	FavouriteLocations      string     `json:"favourite_locations"`
	FavouriteProducts       string     `json:"favourite_products"`
	SMSNotification         bool       `json:"sms_notification"`
	EmailNotification       bool       `json:"email_notification"`
	MarketingNotification   bool       `json:"marketing_notification"`
	NotificationUpdates     bool       `json:"notification_updates"`
	Active                  *bool      `json:"active"`
	AverageOrderValue       float64    `json:"average_order_value"`
	TotalOrderValue         float64    `json:"total_order_value"`
	FrequencyOfVisits       float64    `json:"frequency_of_visits"`
	Status                  Status     `json:"status"`
	EmailVerificationStatus bool       `json:"email_verification_status"`
	PhoneVerificationStatus bool       `json:"phone_verification_status"`
	RegisteredFrom          string     `json:"registered_from"`
	RegisteredBy            string     `json:"registered_by"`
	RegisteredByID          *string    `json:"registered_by_id"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	DeletedAt               *time.Time `json:"deleted_at,omitempty"`
}

// ToClient returns the redacted view of u.
func (u *User) ToClient() ClientUser {
	return ClientUser{
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
		Status:                  u.Status,
		EmailVerificationStatus: u.EmailVerificationStatus,
		PhoneVerificationStatus: u.PhoneVerificationStatus,
		RegisteredFrom:          u.RegisteredFrom,
		RegisteredBy:            u.RegisteredBy,
		RegisteredByID:          u.RegisteredByID,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
		DeletedAt:               u.DeletedAt,
	}
}
