package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/odoo-school-client/config"
)

// InitLogger initializes the structured logger on w (stderr when nil).
// Development mode switches to a text handler at debug level.
func InitLogger(cfg config.AppConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}

	var handler slog.Handler
	switch {
	case cfg.IsDev:
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case cfg.Log.Format == "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads env files, then the process environment, then applies
// Sanitize. Without arguments it tries ./.env and ignores its absence; a named
// file that does not exist is an error. godotenv never overrides variables
// that are already set.
func LoadConfig(envFiles ...string) (config.AppConfig, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return config.AppConfig{}, err
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}
