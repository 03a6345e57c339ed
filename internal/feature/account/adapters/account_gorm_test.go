package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loyalty_backend/internal/feature/account/domain/entity"
	"loyalty_backend/internal/feature/account/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(Models()...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func createUser(t *testing.T, repo *userGorm, mutate func(u *entity.User)) *entity.User {
	t.Helper()
	u := entity.NewUser()
	u.ID = uuid.NewString()
	u.FirstName = "Ada"
	u.LastName = "Lovelace"
	u.Email = u.ID + "@example.com"
	u.Status = entity.StatusRegistered
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createToken(t *testing.T, repo *tokenGorm, kind entity.TokenKind, userID string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), &entity.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Value:     uuid.NewString(),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}))
}

func countTokens(t *testing.T, db *gorm.DB, kind entity.TokenKind, userID string) int64 {
	t.Helper()
	model, err := tokenModelFor(kind)
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(model).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestModels_TokenTablesHaveColumns(t *testing.T) {
	db := setupTestDB(t)

	for _, kind := range entity.RevocationOrder {
		model, err := tokenModelFor(kind)
		require.NoError(t, err)
		for _, col := range []string{"id", "user_id", "token", "expires_at", "created_at"} {
			assert.True(t, db.Migrator().HasColumn(model, col), "%s table is missing %s", kind, col)
		}
	}
}

func TestUserGorm_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	phone := "+15550100"
	u := createUser(t, repo, func(u *entity.User) {
		u.Phone = &phone
		u.Password = "hashed"
	})
	assert.False(t, u.CreatedAt.IsZero(), "CreatedAt is not set")

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "hashed", got.Password)
	assert.True(t, got.SMSNotification)
	assert.Equal(t, entity.DefaultRegisteredFrom, got.RegisteredFrom)

	byPhone, err := repo.FindActiveByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	t.Run("same id is rejected", func(t *testing.T) {
		dup := entity.NewUser()
		dup.ID = u.ID
		dup.Email = "other@example.com"
		err := repo.Create(ctx, dup)
		assert.Error(t, err)
	})
}

func TestUserGorm_GuestsNeverMatchActiveLookups(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	phone := "+15550111"
	guest := createUser(t, repo, func(u *entity.User) {
		u.Email = "guest@example.com"
		u.Phone = &phone
		u.Status = entity.StatusGuest
	})

	_, err := repo.FindActiveByEmail(ctx, "guest@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	_, err = repo.FindActiveByPhone(ctx, phone)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	// the unrestricted lookup still finds guests
	got, err := repo.FindByEmail(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, got.ID)
}

func TestUserGorm_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u := createUser(t, repo, nil)

	name := "Augusta"
	marketing := true
	status := entity.StatusVerified
	require.NoError(t, repo.Update(ctx, u.ID, entity.UserChanges{
		FirstName:             &name,
		MarketingNotification: &marketing,
		Status:                &status,
	}))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.True(t, got.MarketingNotification)
	assert.Equal(t, entity.StatusVerified, got.Status)

	err = repo.Update(ctx, "missing", entity.UserChanges{FirstName: &name})
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserGorm_ListContactsByStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createUser(t, repo, func(u *entity.User) { u.FirstName = "Ada" })
	createUser(t, repo, func(u *entity.User) { u.FirstName = "Grace"; u.LastName = "Hopper" })
	createUser(t, repo, func(u *entity.User) { u.Status = entity.StatusGuest })
	deleted := createUser(t, repo, nil)
	require.NoError(t, repo.SoftDelete(ctx, deleted.ID, time.Now().UTC()))

	contacts, count, err := repo.ListContactsByStatus(ctx, entity.StatusRegistered)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, contacts, 2)

	names := []string{contacts[0].Name, contacts[1].Name}
	assert.ElementsMatch(t, []string{"Ada Lovelace", "Grace Hopper"}, names)
}

func TestUserGorm_ListVenueGuestIDs(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	venueGuest := createUser(t, repo, func(u *entity.User) {
		u.Status = entity.StatusGuest
		u.RegisteredFrom = entity.RegisteredFromVenue
	})
	// app guests and registered users are not listed
	createUser(t, repo, func(u *entity.User) { u.Status = entity.StatusGuest })
	createUser(t, repo, func(u *entity.User) { u.RegisteredFrom = entity.RegisteredFromVenue })
	gone := createUser(t, repo, func(u *entity.User) {
		u.Status = entity.StatusGuest
		u.RegisteredFrom = entity.RegisteredFromVenue
	})
	require.NoError(t, repo.SoftDelete(ctx, gone.ID, time.Now().UTC()))

	ids, err := repo.ListVenueGuestIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{venueGuest.ID}, ids)
}

func TestDeleteCascade_WithGormRepositories(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	tokens := NewTokenRepository(db)

	u := createUser(t, users, nil)
	other := createUser(t, users, nil)

	createToken(t, tokens, entity.TokenKindAuth, u.ID)
	createToken(t, tokens, entity.TokenKindAuth, u.ID)
	createToken(t, tokens, entity.TokenKindForgotPassword, u.ID)
	createToken(t, tokens, entity.TokenKindSession, other.ID)

	uc := usecase.NewAccountUsecase(users, tokens, nil)
	require.NoError(t, uc.DeleteCascade(ctx, u.ID))

	for _, kind := range entity.RevocationOrder {
		assert.Zero(t, countTokens(t, db, kind, u.ID), "tokens of kind %s remain", kind)
	}
	assert.EqualValues(t, 1, countTokens(t, db, entity.TokenKindSession, other.ID), "other users' tokens must survive")

	_, err := users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	got, err := users.FindByIDIncludingDeleted(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted())
	firstDeletedAt := *got.DeletedAt

	// re-running succeeds and keeps the deletion time
	require.NoError(t, uc.DeleteCascade(ctx, u.ID))
	again, err := users.FindByIDIncludingDeleted(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, firstDeletedAt.Equal(*again.DeletedAt))
}

func TestTokenGorm_DeleteAllByUserID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	createToken(t, repo, entity.TokenKindVerification, "u-1")
	createToken(t, repo, entity.TokenKindVerification, "u-1")

	n, err := repo.DeleteAllByUserID(ctx, entity.TokenKindVerification, "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.DeleteAllByUserID(ctx, entity.TokenKindVerification, "u-1")
	require.NoError(t, err, "deleting nothing is not an error")
	assert.Zero(t, n)

	_, err = repo.DeleteAllByUserID(ctx, entity.TokenKind("bogus"), "u-1")
	assert.Error(t, err)
}

func TestTokenGorm_FindByValue(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	expires := time.Date(2024, 4, 1, 13, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.Token{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		Kind:      entity.TokenKindSession,
		Value:     "hashed-session",
		ExpiresAt: expires,
		CreatedAt: expires.Add(-time.Hour),
	}))

	got, err := repo.FindByValue(ctx, entity.TokenKindSession, "hashed-session")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, entity.TokenKindSession, got.Kind)
	assert.True(t, expires.Equal(got.ExpiresAt))

	_, err = repo.FindByValue(ctx, entity.TokenKindAuth, "hashed-session")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound, "lookups are scoped to the kind's table")

	_, err = repo.FindByValue(ctx, entity.TokenKindSession, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	_, err = repo.DeleteAllByUserID(ctx, entity.TokenKindSession, "u-1")
	require.NoError(t, err)
	_, err = repo.FindByValue(ctx, entity.TokenKindSession, "hashed-session")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound, "revoked sessions are gone")
}

func TestTokenGorm_ListPendingUpdates(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	rows := []UpdateTokenModel{
		{ID: "pending", UserID: "u-1", ValueType: "email", NewValue: "new@example.com", Expiry: now.Add(time.Hour), CreatedAt: now},
		{ID: "used", UserID: "u-1", ValueType: "phone", Used: true, Expiry: now.Add(time.Hour), CreatedAt: now},
		{ID: "expired", UserID: "u-1", ValueType: "email", Expiry: now.Add(-time.Hour), CreatedAt: now},
		{ID: "other-user", UserID: "u-2", ValueType: "email", Expiry: now.Add(time.Hour), CreatedAt: now},
	}
	require.NoError(t, db.Create(&rows).Error)

	got, err := repo.ListPendingUpdates(ctx, "u-1", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pending", got[0].ID)
	assert.Equal(t, "new@example.com", got[0].NewValue)
}
