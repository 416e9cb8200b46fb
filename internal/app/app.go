package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/db"
	"github.com/edvance/edvance-backend/internal/observability"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
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

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "edvance-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	database, err := db.NewDatabaseService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := database.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet)
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(log, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
