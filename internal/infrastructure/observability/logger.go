package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// InitLogger builds the process logger. Every entry carries the service and
// instance names so audit warnings can be traced back to a replica.
func InitLogger(level string, output io.Writer, service, instance string) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	return zerolog.New(output).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Str("instance", instance).
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ForOperation returns a child logger tagged with an orchestration operation and
// the identifiers it is working on.
func ForOperation(logger zerolog.Logger, operation, transactionID, partnerID string) zerolog.Logger {
	l := logger.With().Str("operation", operation)
	if transactionID != "" {
		l = l.Str("transaction_id", transactionID)
	}
	if partnerID != "" {
		l = l.Str("partner_id", partnerID)
	}
	return l.Logger()
}
