package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-studio/pkg/config"
)

// New builds the process logger. Production environments default to JSON,
// everything else to zap's development preset.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := Config(cfg)
	return zapCfg.Build()
}

// Config returns the zap configuration New would build from.
func Config(cfg *config.Config) zap.Config {
	var zapCfg zap.Config
	if cfg != nil && cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	format := ""
	level := ""
	if cfg != nil {
		format = cfg.Log.Format
		level = cfg.Log.Level
	}
	switch format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
