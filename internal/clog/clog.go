// Package clog provides the compiler's structured logger. Atlas's own
// libraries never log (they only return errors); grounded instead on
// terraform-cost-estimation's internal/logging package, which wraps
// go.uber.org/zap behind a small package-level API.
package clog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

// Config selects the logger's verbosity and rendering.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// JSON switches from the human-readable console encoder to JSON lines,
	// for piping `validate`/`create-migration` output into log aggregators.
	JSON bool
}

func init() {
	_ = Init(Config{Level: "info"})
}

// Init (re)configures the global logger. The CLI calls this once, early,
// honoring --strict/--json-log flags; library code never calls it.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), level)
	logger = zap.New(core)
	sugar = logger.Sugar()
	return nil
}

// L returns the current global logger.
func L() *zap.Logger { return logger }

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// Sync flushes any buffered log entries; the CLI defers this in main().
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
	_ = sugar
}
