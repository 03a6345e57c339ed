package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"loyalty_backend/internal/feature/account/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
// Every read except FindByIDIncludingDeleted hides soft-deleted users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a visible user by ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByIDIncludingDeleted retrieves a user by ID whether or not it is deleted.
	FindByIDIncludingDeleted(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a visible user by email regardless of status.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindActiveByEmail retrieves a visible, non-guest user by email.
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindActiveByPhone retrieves a visible, non-guest user by phone.
	FindActiveByPhone(ctx context.Context, phone string) (*entity.User, error)

	// Update applies changes to a visible user.
	Update(ctx context.Context, id string, changes entity.UserChanges) error

	// ListContactsByStatus returns the contacts of visible users in the given status and their count.
	ListContactsByStatus(ctx context.Context, status entity.Status) ([]entity.Contact, int64, error)

	// SoftDelete marks the user as deleted. It is a no-op for an already deleted user.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// TokenRepository abstracts the per-user token tables.
type TokenRepository interface {
	// Create persists a token of the given kind.
	Create(ctx context.Context, token *entity.Token) error

	// DeleteAllByUserID hard-deletes every token of kind for the user and returns the number removed.
	// Deleting nothing is not an error.
	DeleteAllByUserID(ctx context.Context, kind entity.TokenKind, userID string) (int64, error)

	// FindByValue retrieves the token of kind with the given stored value.
	// It returns ErrSessionNotFound when nothing matches.
	FindByValue(ctx context.Context, kind entity.TokenKind, value string) (*entity.Token, error)

	// ListPendingUpdates returns unused, unexpired profile update tokens of the user.
	ListPendingUpdates(ctx context.Context, userID string, now time.Time) ([]entity.UpdateToken, error)
}

// TokenIssuer signs session tokens.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (platform/jwt).
type TokenIssuer interface {
	// GenerateToken returns a signed token asserting the given identity.
	GenerateToken(userID, email, firstName, lastName string) (string, error)

	// Expiration is the fixed lifetime of issued tokens.
	Expiration() time.Duration
}

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	DOB            *time.Time
	Province       string
	Password       string
	Status         entity.Status
	RegisteredFrom string
	RegisteredBy   string
	RegisteredByID *string

	// Notification preferences fall back to the column defaults when nil.
	SMSNotification       *bool
	EmailNotification     *bool
	MarketingNotification *bool
	NotificationUpdates   *bool
}

// PendingUpdates is a user together with profile changes awaiting confirmation.
type PendingUpdates struct {
	User    *entity.User
	Updates []entity.UpdateToken
}

// AccountUsecase implements identity, credential verification and account lifecycle.
type AccountUsecase struct {
	users  UserRepository
	tokens TokenRepository
	issuer TokenIssuer
	now    func() time.Time
}

// NewAccountUsecase creates a new AccountUsecase.
func NewAccountUsecase(users UserRepository, tokens TokenRepository, issuer TokenIssuer) *AccountUsecase {
	return &AccountUsecase{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		now:    time.Now,
	}
}

// Register creates a new account. The password pre-condition runs before the user is persisted,
// so a hashing failure aborts the creation.
func (u *AccountUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, required("email", "email is required")
	}
	status := in.Status
	if status == "" {
		status = entity.StatusRegistered
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "status is invalid"}
	}

	// The store does not enforce unique emails. Only accounts that can log in must not collide.
	if status != entity.StatusGuest {
		existing, err := u.users.FindActiveByEmail(ctx, strings.TrimSpace(in.Email))
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, storeError("create user", err)
		}
		if existing != nil {
			return nil, ErrUserAlreadyExists
		}
	}

	user := entity.NewUser()
	user.ID = uuid.NewString()
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = strings.TrimSpace(in.Email)
	user.Phone = in.Phone
	user.DOB = in.DOB
	user.Province = in.Province
	user.Status = status
	if in.RegisteredFrom != "" {
		user.RegisteredFrom = in.RegisteredFrom
	}
	if in.RegisteredBy != "" {
		user.RegisteredBy = in.RegisteredBy
	}
	user.RegisteredByID = in.RegisteredByID
	applyBool(&user.SMSNotification, in.SMSNotification)
	applyBool(&user.EmailNotification, in.EmailNotification)
	applyBool(&user.MarketingNotification, in.MarketingNotification)
	applyBool(&user.NotificationUpdates, in.NotificationUpdates)

	if err := PreparePassword(user, in.Password); err != nil {
		return nil, err
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, storeError("create user", err)
	}
	return user, nil
}

// GetOne returns a visible user by ID.
func (u *AccountUsecase) GetOne(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, required("user_id", "user id is required")
	}
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}

// GetOneIncludingDeleted returns a user by ID even if it has been deleted.
func (u *AccountUsecase) GetOneIncludingDeleted(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, required("user_id", "user id is required")
	}
	user, err := u.users.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, storeError("get user including deleted", err)
	}
	return user, nil
}

// GetByEmail returns a visible user by email without any status restriction.
func (u *AccountUsecase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, required("email", "email is required")
	}
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeError("get user by email", err)
	}
	return user, nil
}

// VerifyCredentials returns the non-guest user matching email and password.
// Any mismatch returns ErrUserNotFound without revealing whether the email or the password was wrong.
// The bcrypt comparison always runs so response time does not depend on whether the user exists.
func (u *AccountUsecase) VerifyCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, required("credentials", "email and password are required")
	}

	user, err := u.users.FindActiveByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, storeError("verify credentials", err)
	}

	hash := ""
	if user != nil {
		hash = user.Password
	}
	if !CheckPassword(hash, password) || user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// FindActiveByEmail returns the non-guest user with the given email. It is used by passwordless flows.
func (u *AccountUsecase) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, required("email", "email is required")
	}
	user, err := u.users.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, storeError("find active by email", err)
	}
	return user, nil
}

// FindActiveByPhone returns the non-guest user with the given phone number.
func (u *AccountUsecase) FindActiveByPhone(ctx context.Context, phone string) (*entity.User, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, required("phone", "phone number is required")
	}
	user, err := u.users.FindActiveByPhone(ctx, phone)
	if err != nil {
		return nil, storeError("find active by phone", err)
	}
	return user, nil
}

// IssueSessionToken signs an identity token for the user and records its hash
// as a session token so that account deletion can revoke it.
func (u *AccountUsecase) IssueSessionToken(ctx context.Context, user *entity.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", required("user", "user is required")
	}
	token, err := u.issuer.GenerateToken(user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		return "", credentialError("issue session token", err)
	}

	now := u.now()
	record := &entity.Token{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Kind:      entity.TokenKindSession,
		Value:     hashToken(token),
		ExpiresAt: now.Add(u.issuer.Expiration()),
		CreatedAt: now,
	}
	if err := u.tokens.Create(ctx, record); err != nil {
		return "", storeError("record session token", err)
	}
	return token, nil
}

// SessionActive reports whether token is a recorded, unexpired session of userID.
// Tokens revoked by DeleteCascade are gone from the store and are reported inactive.
func (u *AccountUsecase) SessionActive(ctx context.Context, userID, token string) (bool, error) {
	if strings.TrimSpace(userID) == "" || token == "" {
		return false, nil
	}
	session, err := u.tokens.FindByValue(ctx, entity.TokenKindSession, hashToken(token))
	if errors.Is(err, ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("find session", err)
	}
	return session.UserID == userID && !session.IsExpired(u.now()), nil
}

// Login verifies the credentials and issues a session token.
func (u *AccountUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := u.IssueSessionToken(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdateOne applies a partial update to a visible user. A new password is hashed
// under the same rule as at creation; an empty one is rejected, and so is any
// password for a user that is (or becomes) a guest.
func (u *AccountUsecase) UpdateOne(ctx context.Context, id string, changes entity.UserChanges) error {
	if strings.TrimSpace(id) == "" || changes.IsEmpty() {
		return required("user_id", "user id and data both are required")
	}
	if changes.Status != nil && !changes.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status is invalid"}
	}

	if changes.Password != nil {
		if strings.TrimSpace(*changes.Password) == "" {
			return required("password", "password must not be empty")
		}
		user, err := u.users.FindByID(ctx, id)
		if err != nil {
			return storeError("update user", err)
		}
		status := user.Status
		if changes.Status != nil {
			status = *changes.Status
		}
		if status == entity.StatusGuest {
			return &ValidationError{Field: "password", Message: "guests cannot have a password"}
		}
		target := &entity.User{Status: status}
		if err := PreparePassword(target, *changes.Password); err != nil {
			return err
		}
		changes.Password = &target.Password
	}

	if err := u.users.Update(ctx, id, changes); err != nil {
		return storeError("update user", err)
	}
	return nil
}

// ListRegistered returns the contacts of all registered users and the total count.
func (u *AccountUsecase) ListRegistered(ctx context.Context) ([]entity.Contact, int64, error) {
	contacts, count, err := u.users.ListContactsByStatus(ctx, entity.StatusRegistered)
	if err != nil {
		return nil, 0, storeError("list registered users", err)
	}
	return contacts, count, nil
}

// GetWithPendingUpdates returns the user and its unused, unexpired profile update tokens.
func (u *AccountUsecase) GetWithPendingUpdates(ctx context.Context, id string) (*PendingUpdates, error) {
	user, err := u.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	updates, err := u.tokens.ListPendingUpdates(ctx, id, u.now())
	if err != nil {
		return nil, storeError("list pending updates", err)
	}
	return &PendingUpdates{User: user, Updates: updates}, nil
}

// DeleteCascade revokes every token of the user and then soft-deletes the account.
// Tokens are removed first, so a failure part way never leaves a deleted user with live tokens.
// Each step is idempotent and the whole operation can be re-run after an interruption.
func (u *AccountUsecase) DeleteCascade(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return required("user_id", "user_id is required")
	}
	if _, err := u.users.FindByIDIncludingDeleted(ctx, userID); err != nil {
		return storeError("delete user", err)
	}

	for _, kind := range entity.RevocationOrder {
		if _, err := u.tokens.DeleteAllByUserID(ctx, kind, userID); err != nil {
			return storeError("revoke "+string(kind)+" tokens", err)
		}
	}

	if err := u.users.SoftDelete(ctx, userID, u.now()); err != nil {
		return storeError("delete user", err)
	}
	return nil
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
