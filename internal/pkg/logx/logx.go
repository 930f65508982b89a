// Package logx wraps zap behind a small package-level API so the rest of
// the codebase does not carry logger plumbing through every constructor.
package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// Default logger so packages can log before Init runs (tests, tools).
	logger, _ := zap.NewProduction()
	sugar = logger.Sugar()
}

// Init builds the process-wide logger. level is a zap level name ("debug",
// "info", ...); format is "json" or "console".
func Init(level, format string) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = logLevel
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

func Info(msg string)                                 { sugar.Info(msg) }
func Infof(template string, args ...interface{})      { sugar.Infof(template, args...) }
func Infow(msg string, keysAndValues ...interface{})  { sugar.Infow(msg, keysAndValues...) }
func Warnf(template string, args ...interface{})      { sugar.Warnf(template, args...) }
func Warnw(msg string, keysAndValues ...interface{})  { sugar.Warnw(msg, keysAndValues...) }
func Errorf(template string, args ...interface{})     { sugar.Errorf(template, args...) }
func Errorw(msg string, keysAndValues ...interface{}) { sugar.Errorw(msg, keysAndValues...) }
func Fatalf(template string, args ...interface{})     { sugar.Fatalf(template, args...) }

// Sync flushes buffered log entries; call before exit.
func Sync() {
	_ = sugar.Sync()
}
