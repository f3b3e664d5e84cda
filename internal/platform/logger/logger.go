package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the shared zap logger. Level and format come from the
// environment (LOG_LEVEL, LOG_FORMAT) so deployments can switch to debug or
// console output without a rebuild.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	if lvl, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	if strings.EqualFold(getEnv("LOG_FORMAT", "json"), "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return cfg.Build()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
