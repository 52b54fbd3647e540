package logging

import (
	"testing"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestInitLogger(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("logging.level", "warn")
	v.Set("logging.format", "json")

	logger, err := InitLogger(config.NewFromViper(v))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInitConsoleLogger(t *testing.T) {
	logger, err := InitConsoleLogger(true, true, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "verbose wins over quiet")

	logger, err = InitConsoleLogger(false, true, false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
