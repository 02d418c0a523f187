package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/data/db"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
	"github.com/serenehq/serene-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	eventBus bus.Bus
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

	log.Info("Loading environment variables...")
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

	hub := realtime.NewHub(log)

	// Multi-instance deployments mirror hub events through redis. Optional: a
	// single instance works without REDIS_ADDR.
	var eventBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		eventBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis event bus unavailable, running with in-process hub only", "error", err)
			eventBus = nil
		}
	}
	notifier := newEventNotifier(log, hub, eventBus)

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, notifier)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Hub:      hub,
		eventBus: eventBus,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.eventBus != nil {
		if err := a.eventBus.StartForwarder(ctx, func(m realtime.Message) {
			a.Hub.Broadcast(m)
		}); err != nil {
			a.Log.Warn("Redis event forwarder failed to start", "error", err)
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
	if a.eventBus != nil {
		_ = a.eventBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
