package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingWarmer struct {
	calls  atomic.Int32
	result int
	err    error
}

func (w *countingWarmer) Warm(ctx context.Context) (int, error) {
	w.calls.Add(1)
	return w.result, w.err
}

func TestReportWarmupConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultReportWarmupConfig().Validate())

	err := ReportWarmupConfig{}.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	err = ReportWarmupConfig{Interval: time.Second, RunTimeout: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewReportWarmup_RequiresWarmer(t *testing.T) {
	_, err := NewReportWarmup(DefaultReportWarmupConfig(), nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestReportWarmup_RunOnce(t *testing.T) {
	t.Run("records successful run", func(t *testing.T) {
		warmer := &countingWarmer{result: 3}
		w, err := NewReportWarmup(DefaultReportWarmupConfig(), warmer, zap.NewNop())
		require.NoError(t, err)

		w.RunOnce(context.Background())

		at, count := w.LastRun()
		assert.False(t, at.IsZero())
		assert.Equal(t, 3, count)
	})

	t.Run("failure keeps previous run", func(t *testing.T) {
		warmer := &countingWarmer{err: errors.New("db down")}
		w, err := NewReportWarmup(DefaultReportWarmupConfig(), warmer, zap.NewNop())
		require.NoError(t, err)

		w.RunOnce(context.Background())

		at, _ := w.LastRun()
		assert.True(t, at.IsZero())
		assert.Equal(t, int32(1), warmer.calls.Load())
	})
}

func TestReportWarmup_StartStop(t *testing.T) {
	warmer := &countingWarmer{result: 1}
	w, err := NewReportWarmup(ReportWarmupConfig{
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
	}, warmer, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	// second start is a no-op
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsRunning())

	assert.Eventually(t, func() bool {
		return warmer.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, w.Stop(stopCtx))
	assert.False(t, w.IsRunning())

	calls := warmer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, warmer.calls.Load(), "no runs after stop")

	// stopping twice is a no-op
	assert.NoError(t, w.Stop(stopCtx))
}
