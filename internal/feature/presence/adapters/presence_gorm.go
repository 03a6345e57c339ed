// Package adapters は presence フィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loyalty_backend/internal/feature/presence/domain/entity"
	"loyalty_backend/internal/feature/presence/usecase"
)

// presenceGorm は PresenceRepository インターフェースの GORM 実装です。
type presenceGorm struct {
	db *gorm.DB
}

// presenceGorm が PresenceRepository を実装していることをコンパイル時に検証します。
var _ usecase.PresenceRepository = (*presenceGorm)(nil)

// NewPresenceRepository は指定された gorm.DB 接続で presenceGorm の新しいインスタンスを生成します。
func NewPresenceRepository(db *gorm.DB) *presenceGorm {
	return &presenceGorm{db: db}
}

// Upsert は (user_id, location_id) のレコードを 1 文で作成または更新します。
// 既存レコードでは in_store を InStore が true の場合のみ更新します。
func (r *presenceGorm) Upsert(ctx context.Context, u usecase.PresenceUpdate) error {
	at := u.At
	model := PresenceModel{
		UserID:         u.UserID,
		LocationID:     u.LocationID,
		ActivityStatus: true,
		InStore:        u.InStore,
		LastSeen:       &at,
		LastActivity:   &at,
		CreatedAt:      at,
		UpdatedAt:      at,
	}

	columns := []string{"activity_status", "last_seen", "last_activity", "updated_at"}
	if u.InStore {
		columns = append(columns, "in_store")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "location_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&model).Error
}

// FindByUserLocation は (user_id, location_id) のレコードを取得します。
// 存在しない場合は usecase.ErrPresenceNotFound を返します。
func (r *presenceGorm) FindByUserLocation(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error) {
	var m PresenceModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPresenceNotFound
		}
		return nil, err
	}
	rec := m.ToEntity()
	return &rec, nil
}

// ListStale はフラグが立ったまま q.Field が q.Before より古いレコードを ID 順で返します。
// q.WithOwner の場合、削除されていない所有ユーザーのスナップショットを付与します。
func (r *presenceGorm) ListStale(ctx context.Context, q usecase.StaleQuery) ([]entity.PresenceRecord, error) {
	column, err := staleColumn(q.Field)
	if err != nil {
		return nil, err
	}
	if q.UserIDs != nil && len(q.UserIDs) == 0 {
		return nil, nil
	}

	tx := r.db.WithContext(ctx).
		Where("(activity_status = ? OR in_store = ?)", true, true).
		Where(column+" < ?", q.Before)
	if q.UserIDs != nil {
		tx = tx.Where("user_id IN ?", q.UserIDs)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var models []PresenceModel
	if err := tx.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]entity.PresenceRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].ToEntity())
	}
	if q.WithOwner && len(records) > 0 {
		if err := r.attachOwners(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ClearFlags は指定レコードの activity_status と in_store を 1 回の UPDATE で false にします。
// UpdateColumns を使うため updated_at は変更されません。
func (r *presenceGorm) ClearFlags(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&PresenceModel{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]any{
			"activity_status": false,
			"in_store":        false,
		})
	return result.RowsAffected, result.Error
}

func (r *presenceGorm) attachOwners(ctx context.Context, records []entity.PresenceRecord) error {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.UserID]; ok {
			continue
		}
		seen[rec.UserID] = struct{}{}
		ids = append(ids, rec.UserID)
	}

	var owners []ownerRow
	if err := r.db.WithContext(ctx).
		Select(ownerColumns).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(&owners).Error; err != nil {
		return err
	}

	byID := make(map[string]*ownerRow, len(owners))
	for i := range owners {
		byID[owners[i].ID] = &owners[i]
	}
	for i := range records {
		if o, ok := byID[records[i].UserID]; ok {
			records[i].Owner = o.toSnapshot()
		}
	}
	return nil
}

func staleColumn(f usecase.StaleField) (string, error) {
	switch f {
	case usecase.StaleByUpdatedAt, usecase.StaleByLastActivity:
		return string(f), nil
	default:
		return "", fmt.Errorf("unsupported stale field %q", f)
	}
}
