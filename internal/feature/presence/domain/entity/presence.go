// Package entity defines the domain entities for the presence feature.
package entity

import "time"

// EventUserPresence is the event name published when presence flags are cleared.
const EventUserPresence = "user_presence"

// PresenceRecord is the activity state of one user at one location.
// There is at most one record per (UserID, LocationID); no record means the user was never active there.
type PresenceRecord struct {
	ID             uint
	UserID         string
	LocationID     string
	ActivityStatus bool
	InStore        bool
	LastSeen       *time.Time
	LastActivity   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Owner is the owning user's snapshot. It is nil when the user could not be resolved,
	// for example because the account was deleted.
	Owner *UserSnapshot
}

// IsFlagged reports whether either presence flag is set.
func (r *PresenceRecord) IsFlagged() bool {
	return r.ActivityStatus || r.InStore
}

// AdminChannel returns the channel that admin consoles of the record's location subscribe to.
func (r *PresenceRecord) AdminChannel() string {
	return AdminChannel(r.LocationID)
}

// AdminChannel returns the admin channel key for a location.
func AdminChannel(locationID string) string {
	return locationID + "-admin"
}

// UserSnapshot is the subset of user fields copied into presence events.
type UserSnapshot struct {
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

// PresenceEvent is the payload published when a user's presence at a location changes.
// It denormalises the owner so consumers do not need a second lookup.
type PresenceEvent struct {
	ID                      string     `json:"id"`
	FirstName               string     `json:"first_name"`
	LastName                string     `json:"last_name"`
	Email                   string     `json:"email"`
	Phone                   *string    `json:"phone"`
	Status                  string     `json:"status"`
	EmailVerificationStatus bool       `json:"email_verification_status"`
	DOB                     *time.Time `json:"dob"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	ActivityStatus          bool       `json:"activity_status"`
	LastSeen                *time.Time `json:"last_seen"`
	LastActivity            *time.Time `json:"last_activity"`
	InStore                 bool       `json:"in_store"`
	SMSNotification         bool       `json:"sms_notification"`
	EmailNotification       bool       `json:"email_notification"`
	MarketingNotification   bool       `json:"marketing_notification"`
	TotalOrderValue         float64    `json:"total_order_value"`
	AverageOrderValue       float64    `json:"average_order_value"`
	FrequencyOfVisits       float64    `json:"frequency_of_visits"`
}

// NewPresenceEvent builds the event for a record whose flags have been cleared.
// It returns false if the record has no resolvable owner.
func NewPresenceEvent(r PresenceRecord) (PresenceEvent, bool) {
	if r.Owner == nil {
		return PresenceEvent{}, false
	}
	o := r.Owner
	return PresenceEvent{
		ID:                      r.UserID,
		FirstName:               o.FirstName,
		LastName:                o.LastName,
		Email:                   o.Email,
		Phone:                   o.Phone,
		Status:                  o.Status,
		EmailVerificationStatus: o.EmailVerificationStatus,
		DOB:                     o.DOB,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
		ActivityStatus:          false,
		LastSeen:                r.LastSeen,
		LastActivity:            r.LastActivity,
		InStore:                 false,
		SMSNotification:         o.SMSNotification,
		EmailNotification:       o.EmailNotification,
		MarketingNotification:   o.MarketingNotification,
		TotalOrderValue:         o.TotalOrderValue,
		AverageOrderValue:       o.AverageOrderValue,
		FrequencyOfVisits:       o.FrequencyOfVisits,
	}, true
}
