// Package handler はpresenceフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"loyalty_backend/internal/feature/presence/domain/entity"
	"loyalty_backend/internal/feature/presence/transport/http/dto"
	"loyalty_backend/internal/feature/presence/usecase"
	jwtmw "loyalty_backend/internal/platform/jwt"
)

// PresenceUsecase は在席状態操作のユースケースを定義します。
type PresenceUsecase interface {
	PingActivity(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error)
	CheckIn(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error)
	Get(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error)
}

// PresenceHandler は在席状態のHTTPリクエストを処理します。
type PresenceHandler struct {
	uc PresenceUsecase
}

// NewPresenceHandler はPresenceHandlerの新しいインスタンスを生成します。
func NewPresenceHandler(uc PresenceUsecase) *PresenceHandler {
	return &PresenceHandler{uc: uc}
}

// Ping はアプリからのアクティビティ通知を記録します。
//
// POST /locations/:id/activity
func (h *PresenceHandler) Ping(c *gin.Context) {
	h.touch(c, h.uc.PingActivity)
}

// CheckIn は店舗へのチェックインを記録します。
//
// POST /locations/:id/checkin
func (h *PresenceHandler) CheckIn(c *gin.Context) {
	h.touch(c, h.uc.CheckIn)
}

// Get は認証済みユーザーの店舗での在席状態を返します。
//
// GET /locations/:id/presence
func (h *PresenceHandler) Get(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	rec, err := h.uc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, "get presence failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPresenceResponse(rec))
}

func (h *PresenceHandler) touch(c *gin.Context, op func(ctx context.Context, userID, locationID string) (*entity.PresenceRecord, error)) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	rec, err := op(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, "record presence failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPresenceResponse(rec))
}

func (h *PresenceHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrPresenceNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(msg, "error", err, "location_id", c.Param("id"), "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "something went wrong please try again"})
	}
}
