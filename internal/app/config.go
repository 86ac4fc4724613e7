package app

import (
	"time"

	"github.com/learnpath/core-service/internal/logger"
	"github.com/learnpath/core-service/internal/utils"
)

type Config struct {
	Port string

	GraphDataDir  string
	CheckpointDir string

	ModelTimeout       time.Duration
	ModelMaxConcurrent int

	ServiceName string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	modelTimeoutSeconds := utils.GetEnvAsInt("MODEL_TIMEOUT_SECONDS", 120, log)
	return Config{
		Port:               utils.GetEnv("PORT", "8080", log),
		GraphDataDir:       utils.GetEnv("KG_DATA_DIR", "data/graphs", log),
		CheckpointDir:      utils.GetEnv("CHECKPOINT_DIR", "data/checkpoints", log),
		ModelTimeout:       time.Duration(modelTimeoutSeconds) * time.Second,
		ModelMaxConcurrent: utils.GetEnvAsInt("MODEL_MAX_CONCURRENT", 4, log),
		ServiceName:        utils.GetEnv("SERVICE_NAME", "learnpath-core", log),
		Environment:        utils.GetEnv("ENVIRONMENT", "development", log),
		Version:            utils.GetEnv("SERVICE_VERSION", "dev", log),
	}
}
