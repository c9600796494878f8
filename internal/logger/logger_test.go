package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_WithoutSentry(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, Default())
	assert.True(t, Default().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(Config{Debug: false}))
	assert.False(t, Default().Core().Enabled(zapcore.DebugLevel))
}

func TestInitialize_InvalidSentryDSN(t *testing.T) {
	err := Initialize(Config{SentryDSN: "not a dsn"})
	assert.Error(t, err)
}

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Info("info message", zap.String("k", "v"))
	Warn("warn message")
	Error(errors.New("boom"))
	Error(nil)
	ErrorCtx(context.Background(), errors.New("ctx boom"))
	WarnCtx(context.Background(), "ctx warn")

	entries := logs.AllUntimed()
	require.Len(t, entries, 6)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[2].Message)
	assert.Equal(t, "error occurred", entries[3].Message)
	assert.Equal(t, "ctx boom", entries[4].Message)
	assert.Equal(t, "ctx warn", entries[5].Message)
}
