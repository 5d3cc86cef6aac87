// Package logging configures the logrus standard logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"duke/internal/config"
)

// Setup points the standard logger at stderr, so console replies on stdout stay clean.
func Setup(cfg config.Config) error {
	return configure(log.StandardLogger(), os.Stderr, cfg)
}

func configure(logger *log.Logger, w io.Writer, cfg config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	switch cfg.Env {
	case config.EnvProd:
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	case config.EnvDev, config.EnvLocal:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.DateTime})
	default:
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.WithFields(log.Fields{"env": cfg.Env, "level": level.String()}).Debug("logger configured")
	return nil
}
