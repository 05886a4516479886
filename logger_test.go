package distort

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_StrategyIsLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	_, err := NewLensWarp(Sine, WithWorkers(1))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kernel=lens")
	assert.Contains(t, buf.String(), "strategy=sequential")

	SetLogger(nil)
	buf.Reset()
	_, err = NewWave(0.1, 0)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
