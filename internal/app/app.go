package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/learnpath/core-service/internal/clients/openai"
	"github.com/learnpath/core-service/internal/db"
	httpT "github.com/learnpath/core-service/internal/http"
	httpH "github.com/learnpath/core-service/internal/http/handlers"
	"github.com/learnpath/core-service/internal/kg"
	"github.com/learnpath/core-service/internal/logger"
	"github.com/learnpath/core-service/internal/observability"
	"github.com/learnpath/core-service/internal/repos"
	"github.com/learnpath/core-service/internal/services"
	"github.com/learnpath/core-service/internal/workflow"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Server *httpT.Server
	Router *gin.Engine
	Cfg    Config

	Planner   services.PlannerService
	Knowledge services.UserKnowledgeService

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

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	graphs, err := kg.NewStore(cfg.GraphDataDir, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init graph store: %w", err)
	}
	checkpoints, err := workflow.NewCheckpointStore(cfg.CheckpointDir, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init checkpoint store: %w", err)
	}

	model, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	engine := workflow.NewEngine(model, checkpoints, workflow.Config{
		ModelTimeout:            cfg.ModelTimeout,
		MaxConcurrentModelCalls: cfg.ModelMaxConcurrent,
	}, log)

	pathRepo := repos.NewLearningPathRepo(theDB, log)

	planner := services.NewPlannerService(engine, graphs, pathRepo, log)
	knowledge := services.NewUserKnowledgeService(graphs, log)

	server := httpT.NewServer(httpT.RouterConfig{
		Log:              log,
		PathHandler:      httpH.NewPathHandler(planner),
		KnowledgeHandler: httpH.NewKnowledgeHandler(knowledge),
		HealthHandler:    httpH.NewHealthHandler(),
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Router:       server.Engine,
		Cfg:          cfg,
		Planner:      planner,
		Knowledge:    knowledge,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
