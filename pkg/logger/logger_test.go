package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-studio/pkg/config"
)

func TestConfigProductionJSON(t *testing.T) {
	cfg := Config(&config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn"}})
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
	assert.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
	assert.False(t, cfg.Development)
}

func TestConfigFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := Config(&config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "loud", Format: "console"}})
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
}

func TestNewBuildsLogger(t *testing.T) {
	l, err := New(nil)
	assert.NoError(t, err)
	assert.NotNil(t, l)
	assert.NotNil(t, OrNop(nil))
}
