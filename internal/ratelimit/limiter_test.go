package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestNew_DisabledWhenRateNotPositive(t *testing.T) {
	assert.Nil(t, ratelimit.New("node", ratelimit.Config{}))
	assert.Nil(t, ratelimit.New("node", ratelimit.Config{RequestsPerSecond: -1}))
}

func TestLimiter_Wait_WithinBurst(t *testing.T) {
	l := ratelimit.New("node", ratelimit.Config{RequestsPerSecond: 1, Burst: 3})
	require.NotNil(t, l)

	ctx := context.Background()
	for range 3 {
		assert.NoError(t, l.Wait(ctx))
	}
}

func TestLimiter_Wait_QueueTimeout(t *testing.T) {
	l := ratelimit.New("node", ratelimit.Config{
		RequestsPerSecond: 0.5,
		Burst:             1,
		MaxQueueTime:      10 * time.Millisecond,
	})
	require.NotNil(t, l)

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx))

	// Next token is two seconds away, beyond the queue time
	err := l.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ratelimit.ErrQueueTimeout))
}

func TestLimiter_Wait_CallerCancelled(t *testing.T) {
	l := ratelimit.New("node", ratelimit.Config{RequestsPerSecond: 0.5, Burst: 1, MaxQueueTime: time.Minute})
	require.NotNil(t, l)

	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ratelimit.ErrQueueTimeout))
}
