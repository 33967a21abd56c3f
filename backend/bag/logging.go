package bag

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the package wide logger. It discards everything until an
// application installs a real one with SetLogger or NewConsoleLogger.
var Logger *zap.SugaredLogger

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func init() {
	Logger = zap.NewNop().Sugar()
}

// SetLogger replaces the package wide logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	Logger = l
}

// NewConsoleLogger installs a human readable logger on stderr and returns it.
// The level can be changed later with SetLogLevel.
func NewConsoleLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	SetLogger(l.Sugar())
	return Logger, nil
}

// SetLogLevel sets the level of loggers created by NewConsoleLogger.
func SetLogLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}
