package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/leaseledger/leaseledger-backend/internal/http/handlers"
	httpMW "github.com/leaseledger/leaseledger-backend/internal/http/middleware"
	"github.com/leaseledger/leaseledger-backend/internal/observability"
)

type RouterConfig struct {
	AuthHandler      *httpH.AuthHandler
	AuthMiddleware   *httpMW.AuthMiddleware
	AgreementHandler *httpH.AgreementHandler
	WalletHandler    *httpH.WalletHandler
	RealtimeHandler  *httpH.RealtimeHandler
	HealthHandler    *httpH.HealthHandler

	Metrics        *observability.Metrics
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		// Agreements
		if cfg.AgreementHandler != nil {
			protected.POST("/agreements", cfg.AgreementHandler.Create)
			protected.GET("/agreements/:id", cfg.AgreementHandler.Get)
			protected.GET("/agreements/:id/overdue", cfg.AgreementHandler.Overdue)
			protected.POST("/agreements/:id/pay", cfg.AgreementHandler.Pay)
			protected.POST("/agreements/:id/terminate", cfg.AgreementHandler.Terminate)
			protected.GET("/landlord/agreements", cfg.AgreementHandler.ListAsLandlord)
			protected.GET("/tenant/agreements", cfg.AgreementHandler.ListAsTenant)
		}

		// Wallet
		if cfg.WalletHandler != nil {
			protected.GET("/wallet", cfg.WalletHandler.Get)
		}
	}

	return r
}
