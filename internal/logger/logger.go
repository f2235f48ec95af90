package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"clinvartab/internal/errors"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected the JSON encoder.
	JSONOutput bool
)

func init() {
	// No-op until Initialize runs, so packages can log from tests and init code.
	Logger = zap.NewNop().Sugar()
}

// Initialize installs the global logger writing to dst.
//
// The CLI passes stderr here: stdout carries the converted records and must
// never interleave with log lines.
func Initialize(dst io.Writer, verbosity int, jsonOutput bool) error {
	if dst == nil {
		return errors.New("logger: nil destination")
	}
	if verbosity < 0 {
		return errors.Newf("logger: negative verbosity %d", verbosity)
	}
	JSONOutput = jsonOutput

	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(dst), VerbosityToLevel(verbosity))
	Logger = zap.New(core).Sugar()
	return nil
}

// Sync flushes the global logger. Sync errors on terminals are expected
// and ignored.
func Sync() {
	_ = Logger.Sync()
}
