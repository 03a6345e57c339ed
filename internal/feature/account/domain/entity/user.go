// Package entity defines the domain entities for the account feature.
package entity

import (
	"strings"
	"time"
)

// Status is the account state of a user.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusVerified   Status = "verified"
	StatusBanned     Status = "banned"
	// StatusGuest marks an unauthenticated, venue-assisted session record.
	// Guests never match any login lookup.
	StatusGuest Status = "guest"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusRegistered, StatusVerified, StatusBanned, StatusGuest:
		return true
	}
	return false
}

const (
	// DefaultRegisteredFrom is the channel recorded for self sign-ups in the app.
	DefaultRegisteredFrom = "budler"
	// RegisteredFromVenue is the channel for guests registered by venue staff.
	RegisteredFromVenue = "budtender"
	// DefaultRegisteredBy is the actor recorded when users register themselves.
	DefaultRegisteredBy = "user"
)

// User represents a customer account.
// It contains profile data, credentials, preferences and order aggregates maintained elsewhere.
type User struct {
	// ID is an opaque UUID assigned at creation.
	ID string

	FirstName string
	LastName  string

	// Email is required but uniqueness is not enforced at this layer.
	Email    string
	Phone    *string
	DOB      *time.Time
	Province string

	// Password is the bcrypt hash. Empty for guests and passwordless accounts.
	// Never serialise it; use ToClient for anything leaving the service.
	Password string `json:"-"`

	FavouriteLocations string
	FavouriteProducts  string

	SMSNotification       bool
	EmailNotification     bool
	MarketingNotification bool
	NotificationUpdates   bool

	Active *bool

	// Order aggregates are written by the ordering side and are read-only here.
	AverageOrderValue float64
	TotalOrderValue   float64
	FrequencyOfVisits float64

	Status                  Status
	EmailVerificationStatus bool
	PhoneVerificationStatus bool

	RegisteredFrom string
	RegisteredBy   string
	RegisteredByID *string

	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt is set when the account is deleted. Deleted users are hidden from normal reads.
	DeletedAt *time.Time
}

// NewUser returns a user with the column defaults applied.
func NewUser() *User {
	return &User{
		SMSNotification:       true,
		EmailNotification:     true,
		MarketingNotification: false,
		NotificationUpdates:   true,
		RegisteredFrom:        DefaultRegisteredFrom,
		RegisteredBy:          DefaultRegisteredBy,
	}
}

// IsGuest reports whether the user is a guest.
func (u *User) IsGuest() bool {
	return u.Status == StatusGuest
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// HasPassword reports whether a credential hash is stored.
func (u *User) HasPassword() bool {
	return strings.TrimSpace(u.Password) != ""
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MarkDeleted moves the user into the deleted state at the given time.
func (u *User) MarkDeleted(at time.Time) {
	u.DeletedAt = &at
}

// UserChanges holds a partial profile update. Nil fields are left untouched.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Phone     *string
	DOB       *time.Time
	Province  *string

	// Password must already be hashed when it reaches a repository.
	Password *string

	FavouriteLocations *string
	FavouriteProducts  *string

	SMSNotification       *bool
	EmailNotification     *bool
	MarketingNotification *bool
	NotificationUpdates   *bool

	Status                  *Status
	EmailVerificationStatus *bool
	PhoneVerificationStatus *bool
}

// IsEmpty reports whether no field is set.
func (c UserChanges) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Phone == nil && c.DOB == nil &&
		c.Province == nil && c.Password == nil && c.FavouriteLocations == nil &&
		c.FavouriteProducts == nil && c.SMSNotification == nil && c.EmailNotification == nil &&
		c.MarketingNotification == nil && c.NotificationUpdates == nil && c.Status == nil &&
		c.EmailVerificationStatus == nil && c.PhoneVerificationStatus == nil
}

// Contact is the reduced projection used for customer lists.
type Contact struct {
	Name  string
	Email string
	Phone *string
}
