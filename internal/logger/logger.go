package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/config"
)

// Setup configures the global zerolog logger from config. Logs go to stderr so
// the console report on stdout stays clean.
func Setup(cfg config.LogConfig) error {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter is Setup with an explicit output
func SetupWriter(cfg config.LogConfig, out io.Writer) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
