package adapters

import (
	"fmt"
	"time"

	"loyalty_backend/internal/feature/account/domain/entity"
)

// TokenColumns is shared by every per-user token table. It is embedded, so it must stay exported for GORM to see its fields.
type TokenColumns struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	UserID    string    `gorm:"type:char(36);index;not null"`
	Token     string    `gorm:"size:255;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// ToEntity converts the shared columns to a domain entity of kind.
func (c *TokenColumns) ToEntity(kind entity.TokenKind) entity.Token {
	return entity.Token{
		ID:        c.ID,
		UserID:    c.UserID,
		Kind:      kind,
		Value:     c.Token,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

// AuthTokenModel is the GORM model for the user_auth_tokens table.
type AuthTokenModel struct{ TokenColumns }

// TableName returns the table name for GORM.
func (AuthTokenModel) TableName() string { return "user_auth_tokens" }

// VerificationModel is the GORM model for the user_verifications table.
type VerificationModel struct{ TokenColumns }

// TableName returns the table name for GORM.
func (VerificationModel) TableName() string { return "user_verifications" }

// ForgotPasswordTokenModel is the GORM model for the user_forgot_password_tokens table.
type ForgotPasswordTokenModel struct{ TokenColumns }

// TableName returns the table name for GORM.
func (ForgotPasswordTokenModel) TableName() string { return "user_forgot_password_tokens" }

// SessionTokenModel is the GORM model for the user_tokens table.
type SessionTokenModel struct{ TokenColumns }

// TableName returns the table name for GORM.
func (SessionTokenModel) TableName() string { return "user_tokens" }

// UpdateTokenModel is the GORM model for the user_update_tokens table.
type UpdateTokenModel struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	UserID    string    `gorm:"type:char(36);index;not null"`
	ValueType string    `gorm:"size:32;not null"`
	OldValue  string    `gorm:"size:255"`
	NewValue  string    `gorm:"size:255"`
	Used      bool      `gorm:"not null"`
	Expiry    time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (UpdateTokenModel) TableName() string { return "user_update_tokens" }

// ToEntity converts the GORM model to a domain entity.
func (m *UpdateTokenModel) ToEntity() entity.UpdateToken {
	return entity.UpdateToken{
		ID:        m.ID,
		UserID:    m.UserID,
		ValueType: m.ValueType,
		OldValue:  m.OldValue,
		NewValue:  m.NewValue,
		Used:      m.Used,
		Expiry:    m.Expiry,
		CreatedAt: m.CreatedAt,
	}
}

// Models lists every model owned by the account feature, for migrations.
func Models() []any {
	return []any{
		&UserModel{},
		&AuthTokenModel{},
		&VerificationModel{},
		&ForgotPasswordTokenModel{},
		&SessionTokenModel{},
		&UpdateTokenModel{},
	}
}

// tokenModelFor returns an empty model for the table backing kind.
func tokenModelFor(kind entity.TokenKind) (any, error) {
	switch kind {
	case entity.TokenKindAuth:
		return &AuthTokenModel{}, nil
	case entity.TokenKindVerification:
		return &VerificationModel{}, nil
	case entity.TokenKindForgotPassword:
		return &ForgotPasswordTokenModel{}, nil
	case entity.TokenKindSession:
		return &SessionTokenModel{}, nil
	}
	return nil, fmt.Errorf("unknown token kind %q", kind)
}

// tokenModelFromEntity builds the model for t's kind.
func tokenModelFromEntity(t *entity.Token) (any, error) {
	cols := TokenColumns{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Value,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
	switch t.Kind {
	case entity.TokenKindAuth:
		return &AuthTokenModel{cols}, nil
	case entity.TokenKindVerification:
		return &VerificationModel{cols}, nil
	case entity.TokenKindForgotPassword:
		return &ForgotPasswordTokenModel{cols}, nil
	case entity.TokenKindSession:
		return &SessionTokenModel{cols}, nil
	}
	return nil, fmt.Errorf("unknown token kind %q", t.Kind)
}
