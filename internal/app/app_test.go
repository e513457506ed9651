package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.SEOInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, cfg)
	}()

	// Даем серверам подняться перед остановкой.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.True(t, errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestNewDependencies_Memory(t *testing.T) {
	cfg := DefaultConfig()

	deps, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer deps.Close()

	require.NotNil(t, deps.Storage)
	require.NotNil(t, deps.Sessions)
	require.NotNil(t, deps.Cleanup)
	require.NotNil(t, deps.Catalog)
	require.NotNil(t, deps.Calculator)
	require.NotNil(t, deps.Forms)
	require.NotNil(t, deps.SEO)
	require.NotNil(t, deps.Health)
	require.Nil(t, deps.kafkaProducer, "kafka must stay disabled without brokers")
}

func TestNewDependencies_UnknownStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = "tape"

	_, err := NewDependencies(context.Background(), cfg, nil)
	require.Error(t, err)
}
