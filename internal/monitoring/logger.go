// Package monitoring holds the package-level diagnostic logger shared by
// the orchestration layers.
package monitoring

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = newDefaultLogger()

// Logf is the package-level diagnostic logger. It defaults to a zap console
// logger at info level but may be replaced by SetLogger or SetZapLogger.
// Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = base.Sugar().Infof

// Warnf logs conditions that degrade a result without failing it.
var Warnf func(format string, v ...interface{}) = base.Sugar().Warnf

// SetLogger replaces both printf-style loggers. Passing nil will set a
// no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	Logf = f
	Warnf = f
	base = zap.NewNop()
}

// SetZapLogger routes all logging through l.
func SetZapLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	Logf = l.Sugar().Infof
	Warnf = l.Sugar().Warnf
}

// L returns the structured logger for callers that attach fields.
func L() *zap.Logger {
	return base
}

func newDefaultLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
