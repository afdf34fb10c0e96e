package app

import (
	httpH "github.com/leaseledger/leaseledger-backend/internal/http/handlers"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"github.com/leaseledger/leaseledger-backend/internal/realtime"
)

type Handlers struct {
	Auth      *httpH.AuthHandler
	Agreement *httpH.AgreementHandler
	Wallet    *httpH.WalletHandler
	Realtime  *httpH.RealtimeHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      httpH.NewAuthHandler(services.Auth),
		Agreement: httpH.NewAgreementHandler(services.Agreements),
		Wallet:    httpH.NewWalletHandler(services.Wallet),
		Realtime:  httpH.NewRealtimeHandler(log, hub),
		Health:    httpH.NewHealthHandler(),
	}
}
