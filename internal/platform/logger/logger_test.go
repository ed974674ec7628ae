package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickunderhill/ai-interviewer/internal/config"
)

func TestSetup_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", ""} {
		logger, err := Setup(config.ServerConfig{LogLevel: level})
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, logger, "level %q", level)
	}
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := Setup(config.ServerConfig{LogLevel: "verbose"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), custom)

	assert.Same(t, custom, FromContext(ctx))
}

func TestFromContext_MissingLoggerUsesDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContextOrDefault(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	ctx := WithLogger(context.Background(), fallback)
	assert.Same(t, fallback, FromContextOrDefault(ctx, slog.Default()))
}
