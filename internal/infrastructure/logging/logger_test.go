package logging

import (
	"testing"

	"github.com/shelfprice/collector/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zapcore.Level
	}{
		{"info production", config.LogConfig{Level: "info"}, zapcore.InfoLevel},
		{"debug development", config.LogConfig{Level: "debug", Development: true}, zapcore.DebugLevel},
		{"warn", config.LogConfig{Level: "warn"}, zapcore.WarnLevel},
		{"error", config.LogConfig{Level: "error"}, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.level-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "loud")
}
