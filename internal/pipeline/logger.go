package pipeline

import (
	"io"
	"log"
	"strings"
)

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// stdLogger writes leveled lines through the standard log package.
type stdLogger struct {
	min level
	out *log.Logger
}

// NewLogger returns a Logger writing to w, dropping messages below the
// named level ("debug", "info", "warn", "error").
func NewLogger(w io.Writer, minLevel string) Logger {
	return &stdLogger{min: parseLevel(minLevel), out: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) logf(lv level, tag, msg string, args ...interface{}) {
	if lv < l.min {
		return
	}
	l.out.Printf("["+tag+"] "+msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) { l.logf(levelDebug, "DEBUG", msg, args...) }
func (l *stdLogger) Info(msg string, args ...interface{})  { l.logf(levelInfo, "INFO", msg, args...) }
func (l *stdLogger) Warn(msg string, args ...interface{})  { l.logf(levelWarn, "WARN", msg, args...) }
func (l *stdLogger) Error(msg string, args ...interface{}) { l.logf(levelError, "ERROR", msg, args...) }

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
