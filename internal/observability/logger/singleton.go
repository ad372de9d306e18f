package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init builds the singleton logger from the given config.
// Idempotent: only the first call has effect. Call it early in main.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L returns the singleton logger. If Init was never called it falls
// back to a dev/info logger so library code can always log.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named returns a logger tagged with a component name.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With returns a logger carrying extra persistent fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushes any buffered entries. Defer it in main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
