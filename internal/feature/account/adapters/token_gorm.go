package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"loyalty_backend/internal/feature/account/domain/entity"
	"loyalty_backend/internal/feature/account/usecase"
)

// tokenGorm is a GORM implementation of the TokenRepository interface.
type tokenGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure tokenGorm implements TokenRepository.
var _ usecase.TokenRepository = (*tokenGorm)(nil)

// NewTokenRepository creates a new instance of tokenGorm.
func NewTokenRepository(db *gorm.DB) *tokenGorm {
	return &tokenGorm{db: db}
}

// Create persists a token in the table for its kind.
func (r *tokenGorm) Create(ctx context.Context, t *entity.Token) error {
	if t == nil {
		return errors.New("nil token")
	}
	model, err := tokenModelFromEntity(t)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// DeleteAllByUserID hard-deletes all tokens of kind belonging to the user.
func (r *tokenGorm) DeleteAllByUserID(ctx context.Context, kind entity.TokenKind, userID string) (int64, error) {
	model, err := tokenModelFor(kind)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(model)
	return result.RowsAffected, result.Error
}

// FindByValue retrieves the token of kind whose stored value matches.
func (r *tokenGorm) FindByValue(ctx context.Context, kind entity.TokenKind, value string) (*entity.Token, error) {
	model, err := tokenModelFor(kind)
	if err != nil {
		return nil, err
	}
	var cols TokenColumns
	err = r.db.WithContext(ctx).Model(model).Where("token = ?", value).Take(&cols).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	t := cols.ToEntity(kind)
	return &t, nil
}

// ListPendingUpdates returns unused, unexpired update tokens ordered by creation.
func (r *tokenGorm) ListPendingUpdates(ctx context.Context, userID string, now time.Time) ([]entity.UpdateToken, error) {
	var models []UpdateTokenModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND used = ? AND expiry > ?", userID, false, now).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.UpdateToken, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}
