package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	accounthandler "loyalty_backend/internal/feature/account/transport/handler"
	presencehandler "loyalty_backend/internal/feature/presence/transport/handler"
	platformhandler "loyalty_backend/internal/platform/http/handler"
	jwtmw "loyalty_backend/internal/platform/jwt"
	"loyalty_backend/internal/platform/metrics"
	"loyalty_backend/internal/shared/ratelimiter"
)

// Deps はルーター構築に必要な依存関係です。
type Deps struct {
	Accounts *accounthandler.AccountHandler
	Presence *presencehandler.PresenceHandler

	// LoginLimiter が nil の場合、ログイン系エンドポイントの頻度制限は行いません。
	LoginLimiter ratelimiter.Limiter
	// Sessions が nil の場合、署名のみを検証します。
	Sessions     jwtmw.SessionChecker
	ReadyChecks  map[string]platformhandler.Check
	CORSEnabled  bool
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if d.CORSEnabled {
		r.Use(cors.Default())
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(d.ReadyChecks))
	r.GET("/metrics", metrics.Handler())

	login := r.Group("/")
	if d.LoginLimiter != nil {
		login.Use(ratelimiter.Middleware(d.LoginLimiter, "login"))
	}
	{
		// 新規ユーザー登録
		login.POST("/signup", d.Accounts.Signup)
		// ログイン（JWT 発行）
		login.POST("/login", d.Accounts.Login)
		// パスワードレスログイン用のアカウント検索
		login.POST("/login/otp/lookup", d.Accounts.Lookup)
	}

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(d.Sessions))
	{
		auth.GET("/me", d.Accounts.Me)
		auth.PATCH("/me", d.Accounts.UpdateMe)
		auth.DELETE("/me", d.Accounts.DeleteMe)

		// 店舗スタッフによるゲスト登録
		auth.POST("/venue/guests", d.Accounts.RegisterGuest)

		auth.POST("/locations/:id/activity", d.Presence.Ping)
		auth.POST("/locations/:id/checkin", d.Presence.CheckIn)
		auth.GET("/locations/:id/presence", d.Presence.Get)
	}

	return r
}
