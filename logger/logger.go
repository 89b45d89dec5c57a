package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nikodex/config"
)

// Instance is replaced by Init; until then log lines are dropped
var Instance = zap.NewNop()

func Init() error {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(config.LOG_LEVEL)); err != nil {
		level = zapcore.InfoLevel
	}
	encoding := config.LOG_ENCODING
	if encoding == "" {
		encoding = "json"
		if config.DEBUG_MODE {
			encoding = "console"
		}
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      config.DEBUG_MODE,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	l, err := zc.Build()
	if err != nil {
		return err
	}
	Instance = l
	return nil
}

func Sync() {
	_ = Instance.Sync()
}
