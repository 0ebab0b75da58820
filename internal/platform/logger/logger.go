package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level  string // debug|info|warn|error (default info)
	Format string // json|console (default json)
	App    string
}

// New arma el logger del servicio sobre zerolog.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "console", "text":
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	default:
		log = zerolog.New(os.Stdout)
	}

	log = log.Level(level).With().Timestamp().Logger()

	if app := strings.TrimSpace(opts.App); app != "" {
		log = log.With().Str("app", app).Logger()
	}

	return log
}
