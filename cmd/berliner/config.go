package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andreiashu/berlin"
)

// config is read from the environment, after loading an optional .env file.
type config struct {
	DataPath    string // BERLIN_DATA
	ScoringPath string // BERLIN_SCORING, optional YAML file
	LogLevel    string // BERLIN_LOG_LEVEL
}

func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("loading .env: %w", err)
	}
	return config{
		DataPath:    getEnv("BERLIN_DATA", "./berlin-data/catalog.json"),
		ScoringPath: os.Getenv("BERLIN_SCORING"),
		LogLevel:    getEnv("BERLIN_LOG_LEVEL", "warn"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	return cfg.Build()
}

func (c config) scoring() (berlin.ScoringConfig, error) {
	if c.ScoringPath == "" {
		return berlin.DefaultScoring(), nil
	}
	return berlin.LoadScoringConfig(c.ScoringPath)
}
