package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Logger is the process logger. Components receive a copy through their
// constructors; the global zerolog logger points at the same output.
var Logger = zerolog.Nop()

// Init sets up logging on stderr, keeping stdout for command output
func Init(level, format string) {
	InitWithWriter(level, format, os.Stderr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(level, format string, out io.Writer) {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	Logger = newLogger(format, out)
	log.Logger = Logger
}

// newLogger builds a JSON logger with caller info, or a console logger that
// colors only when writing to a terminal
func newLogger(format string, out io.Writer) zerolog.Logger {
	if strings.EqualFold(format, "json") {
		return zerolog.New(out).With().Timestamp().Caller().Logger()
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(out),
	}
	return zerolog.New(console).With().Timestamp().Logger()
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseLogLevel maps LOG_LEVEL to a zerolog level; unknown or empty is info
func parseLogLevel(level string) zerolog.Level {
	switch name := strings.ToLower(strings.TrimSpace(level)); name {
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	default:
		l, err := zerolog.ParseLevel(name)
		if err != nil || l == zerolog.NoLevel {
			return zerolog.InfoLevel
		}
		return l
	}
}

// GetLogger returns the configured logger
func GetLogger() zerolog.Logger {
	return Logger
}
