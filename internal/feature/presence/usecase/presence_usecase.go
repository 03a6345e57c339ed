package usecase

import (
	"context"
	"strings"
	"time"

	"loyalty_backend/internal/feature/presence/domain/entity"
)

// StaleField is the timestamp column a staleness window is measured against.
type StaleField string

const (
	// StaleByUpdatedAt measures staleness from the last write to the record.
	StaleByUpdatedAt StaleField = "updated_at"
	// StaleByLastActivity measures staleness from the last activity ping.
	StaleByLastActivity StaleField = "last_activity"
)

// StaleQuery selects flagged records (activity_status OR in_store) whose Field is before Before.
type StaleQuery struct {
	Field  StaleField
	Before time.Time

	// UserIDs restricts the query to these owners. Nil means every user.
	UserIDs []string

	// WithOwner loads the owning user's snapshot. Deleted owners are left nil.
	WithOwner bool

	// Limit bounds the number of returned records. Zero means no limit.
	Limit int
}

// PresenceUpdate describes one activity ping.
type PresenceUpdate struct {
	UserID     string
	LocationID string
	At         time.Time
	// InStore also raises the in-store flag. A plain ping leaves it as it is.
	InStore bool
}

// PresenceRepository abstracts the persistence layer for presence records.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PresenceRepository interface {
	// Upsert creates the record for the pair or updates the existing one in a single statement.
	Upsert(ctx context.Context, update PresenceUpdate) error

	// FindByUserLocation retrieves the record for the pair.
	FindByUserLocation(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error)

	// ListStale returns flagged records matching the query in store order.
	ListStale(ctx context.Context, q StaleQuery) ([]entity.PresenceRecord, error)

	// ClearFlags sets activity_status and in_store to false on the given records in one update.
	// Timestamps are left untouched.
	ClearFlags(ctx context.Context, ids []uint) (int64, error)
}

// PresenceUsecase records activity of users at locations.
type PresenceUsecase struct {
	repo PresenceRepository
	now  func() time.Time
}

// NewPresenceUsecase creates a new PresenceUsecase.
func NewPresenceUsecase(repo PresenceRepository) *PresenceUsecase {
	return &PresenceUsecase{repo: repo, now: time.Now}
}

// PingActivity marks the user active at the location and stamps last_seen and last_activity.
// The record is created on the first ping and updated afterwards, never duplicated.
func (u *PresenceUsecase) PingActivity(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error) {
	return u.touch(ctx, userID, locationID, false)
}

// CheckIn behaves like PingActivity and additionally marks the user as in store.
func (u *PresenceUsecase) CheckIn(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error) {
	return u.touch(ctx, userID, locationID, true)
}

// Get returns the record for the pair or ErrPresenceNotFound.
func (u *PresenceUsecase) Get(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(locationID) == "" {
		return nil, ErrInvalidInput
	}
	return u.repo.FindByUserLocation(ctx, userID, locationID)
}

func (u *PresenceUsecase) touch(ctx context.Context, userID, locationID string, inStore bool) (*entity.PresenceRecord, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(locationID) == "" {
		return nil, ErrInvalidInput
	}
	update := PresenceUpdate{
		UserID:     userID,
		LocationID: locationID,
		At:         u.now(),
		InStore:    inStore,
	}
	if err := u.repo.Upsert(ctx, update); err != nil {
		return nil, err
	}
	return u.repo.FindByUserLocation(ctx, userID, locationID)
}
