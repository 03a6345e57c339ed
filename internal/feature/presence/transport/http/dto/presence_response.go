// Package dto はpresenceフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"loyalty_backend/internal/feature/presence/domain/entity"
)

// ErrorResponse はエラー応答です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// PresenceResponse はユーザーの店舗での在席状態です。
type PresenceResponse struct {
	UserID         string     `json:"user_id"`
	LocationID     string     `json:"location_id"`
	ActivityStatus bool       `json:"activity_status"`
	InStore        bool       `json:"in_store"`
	LastSeen       *time.Time `json:"last_seen"`
	LastActivity   *time.Time `json:"last_activity"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewPresenceResponse はエンティティから PresenceResponse を生成します。
func NewPresenceResponse(r *entity.PresenceRecord) PresenceResponse {
	return PresenceResponse{
		UserID:         r.UserID,
		LocationID:     r.LocationID,
		ActivityStatus: r.ActivityStatus,
		InStore:        r.InStore,
		LastSeen:       r.LastSeen,
		LastActivity:   r.LastActivity,
		UpdatedAt:      r.UpdatedAt,
	}
}
