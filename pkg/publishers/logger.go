package publishers

import (
	"context"
	"strings"
)

// Logger defines the logging surface publishers rely on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// logPublisher writes every event to the structured logger. Useful as a local sink.
type logPublisher struct {
	id    string
	level string
	log   Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	level := "info"
	if cfg.Log != nil && cfg.Log.Level != "" {
		level = cfg.Log.Level
	}
	return &logPublisher{id: cfg.ID, level: level, log: ensureLogger(log)}, nil
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return TypeLog }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	const msg, key = "earthquake event", "earthquake_event"
	switch strings.ToLower(l.level) {
	case "debug":
		l.log.DebugObj(msg, key, evt)
	case "warn", "warning":
		l.log.WarnObj(msg, key, evt)
	default:
		l.log.InfoObj(msg, key, evt)
	}
	return nil
}
