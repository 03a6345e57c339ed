// Package handler はaccountフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loyalty_backend/internal/feature/account/domain/entity"
	"loyalty_backend/internal/feature/account/transport/http/dto"
	"loyalty_backend/internal/feature/account/usecase"
	jwtmw "loyalty_backend/internal/platform/jwt"
)

// genericError はストアや資格情報の失敗時にクライアントへ返す文言です。
const genericError = "something went wrong please try again"

// AccountUsecase はアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AccountUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	FindActiveByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetWithPendingUpdates(ctx context.Context, id string) (*usecase.PendingUpdates, error)
	UpdateOne(ctx context.Context, id string, changes entity.UserChanges) error
	GetOne(ctx context.Context, id string) (*entity.User, error)
	DeleteCascade(ctx context.Context, userID string) error
}

// AccountHandler はアカウント操作のHTTPリクエストを処理します。
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400
// - ログイン可能なアカウントとメールが重複する場合は409
// - 成功時は201とパスワードを含まないユーザーを返却
func (h *AccountHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Password:              req.Password,
		Phone:                 req.Phone,
		DOB:                   req.DOB,
		Province:              req.Province,
		Status:                entity.StatusRegistered,
		SMSNotification:       req.SMSNotification,
		EmailNotification:     req.EmailNotification,
		MarketingNotification: req.MarketingNotification,
	})
	if err != nil {
		h.fail(c, "signup failed", err)
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// RegisterGuest は店舗スタッフによるゲスト登録を処理します。認証が必要です。
// ゲストはログインできず、資格情報も保存されません。
func (h *AccountHandler) RegisterGuest(c *gin.Context) {
	staffID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.GuestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("guest registration validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         entity.StatusGuest,
		RegisteredFrom: entity.RegisteredFromVenue,
		RegisteredBy:   entity.RegisteredFromVenue,
		RegisteredByID: &staffID,
	})
	if err != nil {
		h.fail(c, "guest registration failed", err)
		return
	}
	slog.Info("guest registered", "user_id", user.ID, "staff_id", staffID)
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時は理由を区別せず401を返します。
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid email or password"})
			return
		}
		h.fail(c, "login failed", err)
		return
	}
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)})
}

// lookupAck は OTP 検索の応答文言です。アカウントの有無にかかわらず同じ内容を返します。
const lookupAck = "if an account matches, a verification code will be sent"

// Lookup はパスワードレスログイン（OTP 送信前など）のためにアカウントを検索します。
// ゲストは対象外です。
// アカウント列挙と個人情報の漏洩を防ぐため、該当の有無にかかわらず202と固定文言のみを返します。
func (h *AccountHandler) Lookup(c *gin.Context) {
	var req dto.LookupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var (
		user *entity.User
		err  error
	)
	switch {
	case strings.TrimSpace(req.Email) != "":
		user, err = h.accounts.FindActiveByEmail(c.Request.Context(), req.Email)
	case strings.TrimSpace(req.Phone) != "":
		user, err = h.accounts.FindActiveByPhone(c.Request.Context(), req.Phone)
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email or phone is required"})
		return
	}
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		slog.Info("otp lookup found no account", "remote_addr", c.ClientIP())
	case err != nil:
		h.fail(c, "account lookup failed", err)
		return
	default:
		slog.Info("otp lookup matched", "user_id", user.ID, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: lookupAck})
}

// Me は認証済みユーザーと確認待ちのプロフィール変更を返します。
func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	res, err := h.accounts.GetWithPendingUpdates(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "get me failed", err)
		return
	}

	pending := make([]dto.PendingUpdateResponse, 0, len(res.Updates))
	for _, u := range res.Updates {
		pending = append(pending, dto.PendingUpdateResponse{ValueType: u.ValueType, Expiry: u.Expiry})
	}
	c.JSON(http.StatusOK, dto.MeResponse{User: dto.NewUserResponse(res.User), PendingUpdates: pending})
}

// UpdateMe は認証済みユーザーのプロフィールを部分更新し、更新後のユーザーを返します。
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.UpdateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	changes := entity.UserChanges{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Phone:                 req.Phone,
		DOB:                   req.DOB,
		Province:              req.Province,
		Password:              req.Password,
		FavouriteLocations:    req.FavouriteLocations,
		FavouriteProducts:     req.FavouriteProducts,
		SMSNotification:       req.SMSNotification,
		EmailNotification:     req.EmailNotification,
		MarketingNotification: req.MarketingNotification,
		NotificationUpdates:   req.NotificationUpdates,
	}
	if err := h.accounts.UpdateOne(c.Request.Context(), userID, changes); err != nil {
		h.fail(c, "update me failed", err)
		return
	}

	user, err := h.accounts.GetOne(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "update me failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteMe は認証済みユーザーのトークンをすべて失効させ、アカウントを削除します。
func (h *AccountHandler) DeleteMe(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		return
	}

	if err := h.accounts.DeleteCascade(c.Request.Context(), userID); err != nil {
		h.fail(c, "delete me failed", err)
		return
	}
	slog.Info("user deleted", "user_id", userID)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

// fail はユースケースのエラーを HTTP ステータスに変換します。
// 内部原因はログにのみ出力し、クライアントには汎用メッセージを返します。
func (h *AccountHandler) fail(c *gin.Context, msg string, err error) {
	var vErr *usecase.ValidationError
	var opErr *usecase.OpError

	switch {
	case errors.As(err, &vErr):
		slog.Warn(msg, "field", vErr.Field, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: vErr.Message})
	case errors.Is(err, usecase.ErrUserNotFound):
		slog.Warn(msg, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		slog.Warn(msg, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "user already exists"})
	case errors.As(err, &opErr):
		slog.Error(msg, "op", opErr.Op, "cause", opErr.Cause, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: genericError})
	default:
		slog.Error(msg, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: genericError})
	}
}
