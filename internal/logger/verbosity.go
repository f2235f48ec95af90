package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for the repeatable -v flag.
const (
	VerbosityUser  = 0 // warnings and errors only
	VerbosityInfo  = 1 // -v: + start/finish and progress counters
	VerbosityDebug = 2 // -vv: + per-record diagnostics
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels.
//
//	0 (none) -> WarnLevel
//	1 (-v)   -> InfoLevel
//	2+ (-vv) -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
