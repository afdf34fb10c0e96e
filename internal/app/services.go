package app

import (
	"os"
	"strings"

	"gorm.io/gorm"

	dataagg "github.com/leaseledger/leaseledger-backend/internal/data/aggregates"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/observability"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"github.com/leaseledger/leaseledger-backend/internal/realtime"
	"github.com/leaseledger/leaseledger-backend/internal/realtime/bus"
	"github.com/leaseledger/leaseledger-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Wallet     services.WalletService
	Notifier   domainagg.AgreementNotifier
	Agreements domainagg.AgreementAggregate
	Bus        bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, hub *realtime.SSEHub, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	authService := services.NewAuthService(db, log, repos.User, repos.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	walletService := services.NewWalletService(log, repos.Account, metrics)

	// With REDIS_ADDR set, events publish through redis so every instance's
	// hub sees them; otherwise they go straight to the local hub.
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	var eventBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, err
		}
		eventBus = b
		emitter = &services.RedisEmitter{Bus: b}
	}

	notifier := services.NewAgreementNotifier(emitter)

	agreements := dataagg.NewAgreementAggregate(dataagg.AgreementAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Agreements: repos.Agreement,
		Wallet:     walletService,
		Notifier:   notifier,
	})

	return Services{
		Auth:       authService,
		Wallet:     walletService,
		Notifier:   notifier,
		Agreements: agreements,
		Bus:        eventBus,
	}, nil
}
