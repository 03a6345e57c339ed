package entity

import "time"

// TokenKind identifies one of the per-user token tables.
type TokenKind string

const (
	TokenKindAuth           TokenKind = "auth"
	TokenKindVerification   TokenKind = "verification"
	TokenKindForgotPassword TokenKind = "forgot_password"
	TokenKindSession        TokenKind = "session"
)

// RevocationOrder is the order in which token kinds are removed when an account is deleted.
var RevocationOrder = []TokenKind{
	TokenKindAuth,
	TokenKindVerification,
	TokenKindForgotPassword,
	TokenKindSession,
}

// Token is a credential or one-time code issued to a user.
type Token struct {
	ID        string
	UserID    string
	Kind      TokenKind
	Value     string // stored hashed for session tokens
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the token has passed its expiration time at now.
func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// UpdateToken is a pending change to a profile field that waits for confirmation
// (for example a new email address).
type UpdateToken struct {
	ID        string
	UserID    string
	ValueType string
	OldValue  string
	NewValue  string
	Used      bool
	Expiry    time.Time
	CreatedAt time.Time
}

// IsPending returns true if the update has not been used and has not expired.
func (t *UpdateToken) IsPending(now time.Time) bool {
	return !t.Used && t.Expiry.After(now)
}
