package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus entry to the Logger interface.
type LogrusLogger struct {
	e *logrus.Entry
}

// NewLogrusLogger wraps an existing logrus logger.
func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{e: logrus.NewEntry(l)}
}

// NewDefault builds a ready-to-use logger at the given level. Unknown level
// strings fall back to info.
func NewDefault(level string) *LogrusLogger {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return NewLogrusLogger(l)
}

func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		f[key] = args[i+1]
	}
	return f
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.e.WithContext(ctx).WithFields(fields(args)).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.e.WithContext(ctx).WithFields(fields(args)).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.e.WithContext(ctx).WithFields(fields(args)).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.e.WithContext(ctx).WithFields(fields(args)).Error(msg)
}

func (l *LogrusLogger) With(args ...any) Logger {
	return &LogrusLogger{e: l.e.WithFields(fields(args))}
}
