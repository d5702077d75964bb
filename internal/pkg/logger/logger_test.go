package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitSetsGlobalLogger(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug", Format: "json"}))
	require.NotNil(t, Log)

	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Config{Level: "chatty", Format: "json"}))
	require.NotNil(t, Log)

	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
}

func TestSyncWithoutInit(t *testing.T) {
	prev := Log
	Log = nil
	t.Cleanup(func() { Log = prev })

	assert.NoError(t, Sync())
}

func TestHelpersWithoutInit(t *testing.T) {
	prev := Log
	Log = nil
	t.Cleanup(func() { Log = prev })

	assert.NotPanics(t, func() {
		Info("setup message")
		Warn("setup message")
		Error("setup message")
	})
}
