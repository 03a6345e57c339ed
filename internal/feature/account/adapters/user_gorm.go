// Package adapters provides the GORM repositories of the account feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"loyalty_backend/internal/feature/account/domain/entity"
	"loyalty_backend/internal/feature/account/usecase"
	platformdb "loyalty_backend/internal/platform/db"
)

// userGorm is a GORM implementation of the UserRepository interface.
// Deleted users are filtered explicitly with the Visible scope.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository creates a new instance of userGorm with the given gorm.DB connection.
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts a new user into the database.
// Returns usecase.ErrUserAlreadyExists if a user with the same ID already exists.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	model := UserModelFromEntity(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if platformdb.IsDuplicateKey(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID retrieves a non-deleted user by ID.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Scopes(Visible).Where("id = ?", id))
}

// FindByIDIncludingDeleted retrieves a user by ID, deleted or not.
func (r *userGorm) FindByIDIncludingDeleted(ctx context.Context, id string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail retrieves a user by email regardless of status.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Scopes(Visible).Where("email = ?", email))
}

// FindActiveByEmail retrieves a non-guest user by email.
func (r *userGorm) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Scopes(Visible, NonGuest).Where("email = ?", email))
}

// FindActiveByPhone retrieves a non-guest user by phone number.
func (r *userGorm) FindActiveByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.first(r.db.WithContext(ctx).Scopes(Visible, NonGuest).Where("phone = ?", phone))
}

// Update writes the given columns of a non-deleted user.
// Returns usecase.ErrUserNotFound if no such user exists.
func (r *userGorm) Update(ctx context.Context, id string, changes entity.UserChanges) error {
	cols := changesToColumns(changes)
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Scopes(Visible).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// ListContactsByStatus returns the contacts of users in status and their count.
func (r *userGorm) ListContactsByStatus(ctx context.Context, status entity.Status) ([]entity.Contact, int64, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).
		Select("first_name", "last_name", "email", "phone").
		Scopes(Visible).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]entity.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, entity.Contact{
			Name:  rows[i].FirstName + " " + rows[i].LastName,
			Email: rows[i].Email,
			Phone: rows[i].Phone,
		})
	}
	return contacts, int64(len(contacts)), nil
}

// SoftDelete sets the deletion time of the user. An already deleted user is left as is.
func (r *userGorm) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", at).Error
}

// ListVenueGuestIDs returns the ids of guests registered by venue staff.
// The presence guest sweep uses it.
func (r *userGorm) ListVenueGuestIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Scopes(Visible).
		Where("status = ? AND registered_from = ?", string(entity.StatusGuest), entity.RegisteredFromVenue).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userGorm) first(q *gorm.DB) (*entity.User, error) {
	var m UserModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}
