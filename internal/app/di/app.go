package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"loyalty_backend/internal/config"
	accountadapters "loyalty_backend/internal/feature/account/adapters"
	accountusecase "loyalty_backend/internal/feature/account/usecase"
	presenceadapters "loyalty_backend/internal/feature/presence/adapters"
	presenceusecase "loyalty_backend/internal/feature/presence/usecase"
	"loyalty_backend/internal/platform/cache"
	jwtmw "loyalty_backend/internal/platform/jwt"
)

// Models returns every GORM model that needs migrating.
func Models() []any {
	return append(accountadapters.Models(), presenceadapters.Models()...)
}

// Usecases holds the wired application usecases.
type Usecases struct {
	Accounts *accountusecase.AccountUsecase
	Presence *presenceusecase.PresenceUsecase
	Sweeps   *presenceusecase.SweepUsecase
}

// NewUsecases wires repositories, the token issuer and the event publisher into the usecases.
// When rdb is non-nil the guest sweep reads the venue guest list through a Redis cache.
func NewUsecases(cfg config.Config, db *gorm.DB, rdb *redis.Client, events presenceusecase.EventPublisher) Usecases {
	userRepo := accountadapters.NewUserRepository(db)
	tokenRepo := accountadapters.NewTokenRepository(db)
	presenceRepo := presenceadapters.NewPresenceRepository(db)

	issuer := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration)

	var guests presenceusecase.GuestDirectory = userRepo
	if rdb != nil {
		guests = cache.NewCachingGuestDirectory(rdb, cfg.GuestCacheTTL, userRepo, "guests")
	}

	return Usecases{
		Accounts: accountusecase.NewAccountUsecase(userRepo, tokenRepo, issuer),
		Presence: presenceusecase.NewPresenceUsecase(presenceRepo),
		Sweeps: presenceusecase.NewSweepUsecase(presenceRepo, guests, events, presenceusecase.SweepConfig{
			GuestStaleAfter:    cfg.GuestStaleAfter,
			PresenceStaleAfter: cfg.PresenceStaleAfter,
			BatchSize:          cfg.SweepBatchSize,
		}),
	}
}
