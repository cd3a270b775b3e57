package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTickerRunsImmediatelyAndRepeats(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	s := NewTickerScheduler(10 * time.Millisecond)
	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(1) }))
	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(100) }))

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	assert.Less(t, runs.Load(), int32(100), "second Start must not launch another loop")
	require.NoError(t, s.Stop(context.Background()))
}

func TestTickerStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewTickerScheduler(time.Hour)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Start(ctx, func(time.Time) { ran <- struct{}{} }))
	<-ran
	cancel()
	require.NoError(t, s.Stop(context.Background()))
}

func TestDisabledTicker(t *testing.T) {
	s := NewTickerScheduler(0)
	called := false
	require.NoError(t, s.Start(context.Background(), func(time.Time) { called = true }))
	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, called)
}
