package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the logger is built.
type Config struct {
	// Env selects the encoder: "dev" (colored console) or "prod" (JSON).
	Env string

	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// ServiceName is attached to every entry when set.
	ServiceName string

	// Version is attached to every entry when set.
	Version string
}

func build(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)

	var l *zap.Logger
	var err error

	if strings.ToLower(cfg.Env) == "prod" {
		l, err = buildProd(level, cfg)
	} else {
		l, err = buildDev(level, cfg)
	}
	if err != nil {
		l, _ = zap.NewProduction()
	}
	return l
}

func buildDev(level zapcore.Level, cfg Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zcfg.DisableStacktrace = true

	l, err := zcfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return withBaseFields(l, cfg), nil
}

func buildProd(level zapcore.Level, cfg Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := zcfg.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}
	return withBaseFields(l, cfg), nil
}

func withBaseFields(l *zap.Logger, cfg Config) *zap.Logger {
	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}
	return l
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
