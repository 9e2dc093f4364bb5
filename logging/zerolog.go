package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter wraps zerolog.Logger to implement the Logger interface.
// Variadic args are interpreted as alternating key/value pairs, matching the
// slog convention used by the rest of this package.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a Logger from an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewConsoleZerologLogger creates a ZerologAdapter writing human readable
// output to stdout, tagged with the given application name.
func NewConsoleZerologLogger(app string) *ZerologAdapter {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	return &ZerologAdapter{logger: logger}
}

// NewJSONZerologLogger creates a ZerologAdapter writing JSON lines to w.
func NewJSONZerologLogger(w io.Writer, app string) *ZerologAdapter {
	logger := zerolog.New(w).With().Timestamp().Str("app", app).Logger()
	return &ZerologAdapter{logger: logger}
}

func applyFields(ev *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}
	if len(args)%2 == 1 {
		ev = ev.Interface("arg", args[len(args)-1])
	}
	return ev
}

// Debug logs a debug message.
func (z *ZerologAdapter) Debug(msg string, args ...any) {
	applyFields(z.logger.Debug(), args).Msg(msg)
}

// Info logs an informational message.
func (z *ZerologAdapter) Info(msg string, args ...any) {
	applyFields(z.logger.Info(), args).Msg(msg)
}

// Warn logs a warning message.
func (z *ZerologAdapter) Warn(msg string, args ...any) {
	applyFields(z.logger.Warn(), args).Msg(msg)
}

// Error logs an error message.
func (z *ZerologAdapter) Error(msg string, args ...any) {
	applyFields(z.logger.Error(), args).Msg(msg)
}
