package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger shared by the message board service.
// - zerolog backed, one JSON object per line
// - provides Debug/Info/Warn/Error/Fatal variants and Init(level)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout)
	level  = LevelInfo
)

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).With().Timestamp().Str("service", "msgboard").Logger()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(l)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

func parseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func event(l Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return nil
	}
	switch l {
	case LevelDebug:
		return logger.Debug()
	case LevelWarn:
		return logger.Warn()
	case LevelError:
		return logger.Error()
	default:
		return logger.Info()
	}
}

func Debugf(format string, v ...interface{}) {
	if e := event(LevelDebug); e != nil {
		e.Msgf(format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if e := event(LevelInfo); e != nil {
		e.Msgf(format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if e := event(LevelWarn); e != nil {
		e.Msgf(format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if e := event(LevelError); e != nil {
		e.Msgf(format, v...)
	}
}

// Fatalf logs regardless of level and exits the process with status 1.
func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}

func Info(v string) { Infof("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
