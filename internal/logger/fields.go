package logger

import "go.uber.org/zap"

// Standard field names for structured logging. Use these constants instead
// of raw strings so log consumers can rely on stable keys.
const (
	FieldFile   = "file"
	FieldFormat = "format"
	FieldBuild  = "build"

	FieldRecord = "record"
	FieldOffset = "offset"
	FieldSize   = "size"

	FieldCount   = "count"
	FieldEmitted = "emitted"
	FieldDropped = "dropped"

	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

// ComponentLogger returns a named logger for a specific component.
//
//	type Pipeline struct {
//	    log *zap.SugaredLogger
//	}
//
//	p := &Pipeline{log: logger.ComponentLogger("pipeline")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
