package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loyalty_backend/internal/feature/presence/usecase"
)

// testUser は owner 解決用の最小限の users テーブルです。
type testUser struct {
	ownerRow
	DeletedAt *time.Time
}

// setupTestDB はテスト用のインメモリ SQLite データベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(append(Models(), &testUser{})...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, email string, deletedAt *time.Time) {
	t.Helper()
	now := time.Now().UTC()
	u := testUser{
		ownerRow: ownerRow{
			ID:        id,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     email,
			Status:    "registered",
			CreatedAt: now,
			UpdatedAt: now,
		},
		DeletedAt: deletedAt,
	}
	require.NoError(t, db.Create(&u).Error)
}

func seedPresence(t *testing.T, db *gorm.DB, m PresenceModel) PresenceModel {
	t.Helper()
	require.NoError(t, db.Create(&m).Error)
	return m
}

func ptr(t time.Time) *time.Time { return &t }

func TestPresenceGorm_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPresenceRepository(db)

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Minute)

	require.NoError(t, repo.Upsert(ctx, usecase.PresenceUpdate{UserID: "u-1", LocationID: "L", At: first, InStore: true}))
	require.NoError(t, repo.Upsert(ctx, usecase.PresenceUpdate{UserID: "u-1", LocationID: "L", At: second}))

	var count int64
	require.NoError(t, db.Model(&PresenceModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one record per user and location")

	rec, err := repo.FindByUserLocation(ctx, "u-1", "L")
	require.NoError(t, err)
	assert.True(t, rec.ActivityStatus)
	assert.True(t, rec.InStore, "an activity ping must not clear in_store")
	require.NotNil(t, rec.LastActivity)
	assert.True(t, second.Equal(*rec.LastActivity))
	assert.True(t, second.Equal(rec.UpdatedAt))

	// 別ロケーションは別レコード
	require.NoError(t, repo.Upsert(ctx, usecase.PresenceUpdate{UserID: "u-1", LocationID: "M", At: second}))
	require.NoError(t, db.Model(&PresenceModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestPresenceGorm_FindByUserLocation_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPresenceRepository(db)

	_, err := repo.FindByUserLocation(context.Background(), "nobody", "L")
	assert.ErrorIs(t, err, usecase.ErrPresenceNotFound)
}

func TestPresenceGorm_ListStale(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPresenceRepository(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seedUser(t, db, "u-1", "ada@example.com", nil)
	seedUser(t, db, "u-gone", "gone@example.com", ptr(now.Add(-time.Hour)))

	stale := seedPresence(t, db, PresenceModel{UserID: "u-1", LocationID: "L", InStore: true,
		LastActivity: ptr(now.Add(-10 * time.Minute)), CreatedAt: now, UpdatedAt: now})
	orphan := seedPresence(t, db, PresenceModel{UserID: "u-gone", LocationID: "L", ActivityStatus: true,
		LastActivity: ptr(now.Add(-20 * time.Minute)), CreatedAt: now, UpdatedAt: now})
	seedPresence(t, db, PresenceModel{UserID: "u-1", LocationID: "fresh", ActivityStatus: true,
		LastActivity: ptr(now.Add(-time.Minute)), CreatedAt: now, UpdatedAt: now})
	seedPresence(t, db, PresenceModel{UserID: "u-1", LocationID: "cleared",
		LastActivity: ptr(now.Add(-time.Hour)), CreatedAt: now, UpdatedAt: now})

	q := usecase.StaleQuery{Field: usecase.StaleByLastActivity, Before: now.Add(-5 * time.Minute), WithOwner: true}
	recs, err := repo.ListStale(ctx, q)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, stale.ID, recs[0].ID)
	require.NotNil(t, recs[0].Owner)
	assert.Equal(t, "ada@example.com", recs[0].Owner.Email)

	assert.Equal(t, orphan.ID, recs[1].ID)
	assert.Nil(t, recs[1].Owner, "deleted owners are not resolved")

	t.Run("limit bounds the batch", func(t *testing.T) {
		q := q
		q.Limit = 1
		recs, err := repo.ListStale(ctx, q)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, stale.ID, recs[0].ID)
	})

	t.Run("user filter", func(t *testing.T) {
		q := usecase.StaleQuery{Field: usecase.StaleByLastActivity, Before: now.Add(-5 * time.Minute), UserIDs: []string{"u-gone"}}
		recs, err := repo.ListStale(ctx, q)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Nil(t, recs[0].Owner, "owners are only loaded on request")
	})

	t.Run("empty user filter matches nothing", func(t *testing.T) {
		q := usecase.StaleQuery{Field: usecase.StaleByLastActivity, Before: now, UserIDs: []string{}}
		recs, err := repo.ListStale(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := repo.ListStale(ctx, usecase.StaleQuery{Field: "created_at; DROP TABLE users", Before: now})
		assert.Error(t, err)
	})
}

func TestPresenceGorm_ClearFlagsKeepsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPresenceRepository(db)
	written := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rec := seedPresence(t, db, PresenceModel{UserID: "g-1", LocationID: "L", ActivityStatus: true, InStore: true,
		LastActivity: ptr(written), CreatedAt: written, UpdatedAt: written})

	n, err := repo.ClearFlags(ctx, []uint{rec.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.FindByUserLocation(ctx, "g-1", "L")
	require.NoError(t, err)
	assert.False(t, got.ActivityStatus)
	assert.False(t, got.InStore)
	assert.True(t, written.Equal(got.UpdatedAt), "updated_at changed to %v", got.UpdatedAt)

	n, err = repo.ClearFlags(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPresenceGorm_GuestSweepEndToEnd(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPresenceRepository(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	seedPresence(t, db, PresenceModel{UserID: "g-1", LocationID: "L", ActivityStatus: true, InStore: true,
		CreatedAt: now.Add(-45 * time.Minute), UpdatedAt: now.Add(-45 * time.Minute)})
	seedPresence(t, db, PresenceModel{UserID: "g-2", LocationID: "L", ActivityStatus: true,
		CreatedAt: now.Add(-10 * time.Minute), UpdatedAt: now.Add(-10 * time.Minute)})

	sweeps := usecase.NewSweepUsecase(repo, guestList{"g-1", "g-2"}, nopPublisher{}, usecase.SweepConfig{BatchSize: 1})
	res, err := sweeps.SweepGuests(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Cleared)

	g1, err := repo.FindByUserLocation(ctx, "g-1", "L")
	require.NoError(t, err)
	assert.False(t, g1.IsFlagged())

	g2, err := repo.FindByUserLocation(ctx, "g-2", "L")
	require.NoError(t, err)
	assert.True(t, g2.IsFlagged())

	// 2 回目は何もしない
	res, err = sweeps.SweepGuests(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, res.Cleared)
}

type guestList []string

func (g guestList) ListVenueGuestIDs(context.Context) ([]string, error) { return g, nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) {}
