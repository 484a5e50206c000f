// Package logger wires up the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init initializes the logger for the given environment. Safe to call more
// than once; only the first call takes effect.
func Init(env string) *zap.Logger {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var err error
		log, err = config.Build()
		if err != nil {
			panic(err)
		}
	})
	return log
}

// Get returns the process logger, initializing a development logger if Init
// has not been called (tests rely on this).
func Get() *zap.Logger {
	if log == nil {
		return Init("development")
	}
	return log
}
