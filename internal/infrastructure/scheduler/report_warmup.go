package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig wraps every warm-up configuration error
var ErrInvalidConfig = errors.New("invalid report warm-up configuration")

// ReportWarmer recomputes and caches reports
type ReportWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// ReportWarmupConfig holds configuration for the warm-up trigger
type ReportWarmupConfig struct {
	// Interval between two warm-up runs
	Interval time.Duration

	// RunTimeout bounds a single warm-up run
	RunTimeout time.Duration

	// RunOnStart warms the cache once immediately after Start
	RunOnStart bool
}

// DefaultReportWarmupConfig returns default warm-up configuration
func DefaultReportWarmupConfig() ReportWarmupConfig {
	return ReportWarmupConfig{
		Interval:   10 * time.Minute,
		RunTimeout: 2 * time.Minute,
		RunOnStart: true,
	}
}

// Validate checks the configuration
func (c ReportWarmupConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("%w: run timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// ReportWarmup periodically refreshes the cached BPO reports so the first
// request after an invalidation does not pay for the full aggregation.
type ReportWarmup struct {
	config ReportWarmupConfig
	warmer ReportWarmer
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastCount int
}

// NewReportWarmup creates a new warm-up trigger
func NewReportWarmup(config ReportWarmupConfig, warmer ReportWarmer, logger *zap.Logger) (*ReportWarmup, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if warmer == nil {
		return nil, fmt.Errorf("%w: warmer is required", ErrInvalidConfig)
	}
	return &ReportWarmup{
		config: config,
		warmer: warmer,
		logger: logger,
	}, nil
}

// Start starts the warm-up loop
func (w *ReportWarmup) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.runLoop(ctx)

	w.logger.Info("Report warm-up started",
		zap.Duration("interval", w.config.Interval),
		zap.Bool("run_on_start", w.config.RunOnStart),
	)
	return nil
}

// Stop stops the warm-up loop and waits for an in-flight run to finish
func (w *ReportWarmup) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Report warm-up stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (w *ReportWarmup) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// LastRun returns when the last run finished and how many reports it wrote
func (w *ReportWarmup) LastRun() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun, w.lastCount
}

func (w *ReportWarmup) runLoop(ctx context.Context) {
	defer w.wg.Done()

	if w.config.RunOnStart {
		w.RunOnce(ctx)
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single warm-up run. Failures are logged, never returned:
// the cache only memoizes, so a failed warm-up is harmless.
func (w *ReportWarmup) RunOnce(ctx context.Context) {
	if w.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	count, err := w.warmer.Warm(ctx)
	if err != nil {
		w.logger.Warn("Report warm-up failed",
			zap.Int("warmed", count),
			zap.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastCount = count
	w.mu.Unlock()

	w.logger.Debug("Report warm-up finished",
		zap.Int("warmed", count),
		zap.Duration("took", time.Since(start)),
	)
}
