package app

import (
	"github.com/gin-gonic/gin"

	lhttp "github.com/leaseledger/leaseledger-backend/internal/http"
	"github.com/leaseledger/leaseledger-backend/internal/observability"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return lhttp.NewRouter(lhttp.RouterConfig{
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		AgreementHandler: handlers.Agreement,
		WalletHandler:    handlers.Wallet,
		RealtimeHandler:  handlers.Realtime,
		HealthHandler:    handlers.Health,
		Metrics:          metrics,
		AllowedOrigins:   cfg.AllowedOrigins,
	})
}
