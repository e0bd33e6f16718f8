package logging

type Level uint8

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

const (
	KeyRequestID = "request_id"
	KeyUpdateID  = "update_id"
	KeyRouter    = "router"
	KeyUserID    = "user_id"
)
