package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"compassai/internal/infra/config"
)

// LoggingConfig configures logging wiring. A preset Logger is used as is.
type LoggingConfig struct {
	Logger *zap.Logger
}

// NewLogger builds the application logger from the log settings. The
// cleanup flushes it and closes the log file.
func NewLogger(cfg config.Config, logging LoggingConfig) (*zap.Logger, func(), error) {
	if logging.Logger != nil {
		return logging.Logger.Named("app"), func() {}, nil
	}
	return BuildLogger(cfg.Log)
}

// BuildLogger returns a console logger at the configured level, writing to
// stderr and to the log file when one is set.
func BuildLogger(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level),
	}
	var file *os.File
	if cfg.File != "" {
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(file), level))
	}
	logger := zap.New(zapcore.NewTee(cores...)).Named("app")
	return logger, func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}, nil
}
