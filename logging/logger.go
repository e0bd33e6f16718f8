package logging

// Logger defines a structured logging interface with support for various log
// levels, formatting, and context-aware logging using key-value fields.
type Logger interface {
	Info(msg string)
	Infof(format string, args ...any)
	Trace(msg string)
	Tracef(format string, args ...any)
	Error(msg string)
	Errorf(format string, args ...any)
	Warn(msg string)
	Warnf(format string, args ...any)
	Debug(msg string)
	Debugf(format string, args ...any)
	Fatal(msg string)
	Fatalf(format string, args ...any)
	WithField(key string, value any) Logger
	WithFields(fields map[string]any) Logger
	WithRequestRandomID() Logger
	WithUpdateID(updateID int64) Logger
	WithRouter(name string) Logger
	WithUserID(userID int64) Logger
}

// BaseLogger is an interface for creating new Logger instances.
type BaseLogger interface {
	NewLogger() Logger
}

// Config defines the configuration options for the logger.
type Config struct {
	BaseLoggerType   BaseLoggerType
	Level            Level
	FullTimestamp    bool
	DisableTimestamp bool
	TimestampFormat  string
}
