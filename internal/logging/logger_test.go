package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() { SetBase(nil) })

	ctx := WithRequestID(context.Background(), "req-1")
	FromContext(ctx).Info("saved")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "saved", entry.Message)
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New("development", "not-a-level")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}
