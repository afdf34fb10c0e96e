package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leaseledger/leaseledger-backend/internal/db"
	"github.com/leaseledger/leaseledger-backend/internal/observability"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
	"github.com/leaseledger/leaseledger-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	SSEHub   *realtime.SSEHub
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	hub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, hub, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middleware, metrics)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
		SSEHub:   hub,
	}, nil
}

// Start begins the redis event forwarder when a bus is configured, so events
// published by any instance reach this instance's hub.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Bus != nil {
		if err := a.Services.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			a.Log.Warn("Could not start event forwarder", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
