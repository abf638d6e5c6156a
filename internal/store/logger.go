package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm/logger"
)

// LogEvent is delivered to handlers registered with Client.On.
type LogEvent struct {
	Level     LogLevel
	Timestamp time.Time
	Message   string
	// Query, Duration and Rows are only set for query events.
	Query    string
	Duration time.Duration
	Rows     int64
	Target   string
}

// eventLogger adapts gorm's logger to the client log definitions.
type eventLogger struct {
	emit     map[LogLevel][]EmitMode
	out      *slog.Logger
	mu       sync.RWMutex
	handlers map[LogLevel][]func(LogEvent)
}

func newEventLogger(defs []LogDefinition, out *slog.Logger) *eventLogger {
	if out == nil {
		out = slog.Default()
	}
	l := &eventLogger{emit: map[LogLevel][]EmitMode{}, out: out, handlers: map[LogLevel][]func(LogEvent){}}
	for _, d := range defs {
		mode := d.Emit
		if mode == "" {
			mode = EmitStdout
		}
		l.emit[d.Level] = append(l.emit[d.Level], mode)
	}
	return l
}

func (l *eventLogger) on(level LogLevel, fn func(LogEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[level] = append(l.handlers[level], fn)
}

func (l *eventLogger) enabled(level LogLevel) bool { return len(l.emit[level]) > 0 }

func (l *eventLogger) publish(ev LogEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	for _, mode := range l.emit[ev.Level] {
		switch mode {
		case EmitStdout:
			l.write(ev)
		case EmitEvent:
			l.mu.RLock()
			hs := l.handlers[ev.Level]
			l.mu.RUnlock()
			for _, h := range hs {
				h(ev)
			}
		}
	}
}

func (l *eventLogger) write(ev LogEvent) {
	switch ev.Level {
	case LogQuery:
		l.out.Info("store:query", "query", ev.Query, "duration", ev.Duration, "rows", ev.Rows)
	case LogInfo:
		l.out.Info("store:info " + ev.Message)
	case LogWarn:
		l.out.Warn("store:warn " + ev.Message)
	case LogError:
		l.out.Error("store:error "+ev.Message, "target", ev.Target)
	}
}

func (l *eventLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *eventLogger) Info(_ context.Context, msg string, data ...any) {
	if l.enabled(LogInfo) {
		l.publish(LogEvent{Level: LogInfo, Message: fmt.Sprintf(msg, data...), Target: "gorm"})
	}
}

func (l *eventLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.enabled(LogWarn) {
		l.publish(LogEvent{Level: LogWarn, Message: fmt.Sprintf(msg, data...), Target: "gorm"})
	}
}

func (l *eventLogger) Error(_ context.Context, msg string, data ...any) {
	if l.enabled(LogError) {
		l.publish(LogEvent{Level: LogError, Message: fmt.Sprintf(msg, data...), Target: "gorm"})
	}
}

// Trace receives every statement gorm executes.
func (l *eventLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), _ error) {
	if !l.enabled(LogQuery) {
		return
	}
	query, rows := fc()
	l.publish(LogEvent{
		Level:     LogQuery,
		Timestamp: begin,
		Query:     query,
		Duration:  time.Since(begin),
		Rows:      rows,
		Target:    "gorm",
	})
}
