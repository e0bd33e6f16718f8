package logging

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// logrusAdapter implements the Logger interface over a logrus.Entry.
type logrusAdapter struct {
	entry *logrus.Entry
}

// baseLogrus holds the shared logrus.Logger from which new Logger instances
// are derived.
type baseLogrus struct {
	logger *logrus.Logger
}

// NewBaseLogger creates and configures a new base logger based on the
// provided configuration. A nil config falls back to a debug-level text
// logger without timestamps.
func NewBaseLogger(config *Config) BaseLogger {
	if config == nil {
		config = &Config{
			BaseLoggerType:   Logrus,
			Level:            DebugLevel,
			FullTimestamp:    false,
			TimestampFormat:  "2006-01-02 15:04:05",
			DisableTimestamp: true,
		}
	}

	switch config.BaseLoggerType {
	case Logrus:
		base := logrus.New()
		base.SetLevel(logrusLevel(config.Level))
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    config.FullTimestamp,
			TimestampFormat:  config.TimestampFormat,
			DisableTimestamp: config.DisableTimestamp,
		})

		return &baseLogrus{logger: base}
	default:
		panic("unsupported base logger type")
	}
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case TraceLevel:
		return logrus.TraceLevel
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger creates a new Logger instance from the base logrus logger.
func (b *baseLogrus) NewLogger() Logger {
	return &logrusAdapter{entry: logrus.NewEntry(b.logger)}
}

func (l *logrusAdapter) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusAdapter) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusAdapter) Trace(msg string) {
	l.entry.Trace(msg)
}

func (l *logrusAdapter) Tracef(format string, args ...any) {
	l.entry.Tracef(format, args...)
}

func (l *logrusAdapter) Error(msg string) {
	l.entry.Error(msg)
}

func (l *logrusAdapter) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *logrusAdapter) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusAdapter) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusAdapter) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *logrusAdapter) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusAdapter) Fatal(msg string) {
	l.entry.Fatal(msg)
}

func (l *logrusAdapter) Fatalf(format string, args ...any) {
	l.entry.Fatalf(format, args...)
}

// WithField returns a new Logger that carries the given key-value pair.
func (l *logrusAdapter) WithField(key string, value any) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new Logger that carries all given key-value pairs.
func (l *logrusAdapter) WithFields(fields map[string]any) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}

// WithRequestRandomID returns a new Logger tagged with a random request id,
// so all log lines of one dispatched update can be correlated.
func (l *logrusAdapter) WithRequestRandomID() Logger {
	return l.WithField(KeyRequestID, uuid.NewString())
}

func (l *logrusAdapter) WithUpdateID(updateID int64) Logger {
	return l.WithField(KeyUpdateID, updateID)
}

func (l *logrusAdapter) WithRouter(name string) Logger {
	return l.WithField(KeyRouter, name)
}

func (l *logrusAdapter) WithUserID(userID int64) Logger {
	return l.WithField(KeyUserID, userID)
}
