// Package logx sets up the process-wide structured logger and the
// image-proxy access-log line formatter/rotator, grounded on the
// zerolog setup pattern used for webfs's filesystem logger and the
// teacher's logx access-log package.
package logx

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds the process-wide application logger: pretty console output
// when stdout is a TTY, structured JSON otherwise. level is one of
// zerolog's level names ("debug", "info", "warn", "error"); an unknown
// value falls back to info.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if isatty.IsTerminal(os.Stdout.Fd()) {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Request returns a child logger with the request_id and id fields
// attached. The engine in internal/ipx does not log.
func Request(base zerolog.Logger, requestID, id string) zerolog.Logger {
	return base.With().Str("request_id", requestID).Str("id", id).Logger()
}
