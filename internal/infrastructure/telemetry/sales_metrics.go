package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Decision labels
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Result labels for decisions that did not fail with a domain error code
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// SalesMetrics tracks the approval workflow: decisions, booked revenue,
// credited commissions and goal tracker sync failures. All methods are safe
// to call on a nil receiver so callers need not guard optional metrics.
type SalesMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	decisionTotal      *Counter
	decisionDuration   *Histogram
	revenueCents       *Counter
	commissionCents    *Counter
	goalSyncFailures   *Counter
	pendingQueueLength *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	queueProvider PendingQueueProvider
}

// PendingQueueProvider reports the size of the decision queue for periodic collection
type PendingQueueProvider interface {
	CountPending(ctx context.Context) (int64, error)
}

// SalesMetricsConfig holds configuration for sales metrics.
type SalesMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	QueueProvider PendingQueueProvider
}

// NewSalesMetrics creates a new SalesMetrics instance.
func NewSalesMetrics(cfg SalesMetricsConfig) (*SalesMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SalesMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		queueProvider: cfg.QueueProvider,
	}

	var err error

	sm.decisionTotal, err = NewCounter(cfg.Meter,
		"sales_decision_total",
		"Total number of approve/reject decisions by result",
		"{decisions}",
	)
	if err != nil {
		return nil, err
	}

	sm.decisionDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "sales_decision_duration_seconds",
		Description: "Time taken to process an approve/reject decision",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	sm.revenueCents, err = NewCounter(cfg.Meter,
		"sales_approved_revenue_total",
		"Revenue booked by approved sales in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	sm.commissionCents, err = NewCounter(cfg.Meter,
		"sales_commission_total",
		"Commission credited to performers in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	sm.goalSyncFailures, err = NewCounter(cfg.Meter,
		"sales_goal_sync_failures_total",
		"Approvals whose goal tracker notification failed",
		"{failures}",
	)
	if err != nil {
		return nil, err
	}

	sm.pendingQueueLength, err = NewGauge(cfg.Meter,
		"sales_pending_queue_length",
		"Number of sales awaiting a decision",
		"{sales}",
	)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordDecision records one approve/reject attempt and its latency
func (sm *SalesMetrics) RecordDecision(ctx context.Context, decision, result string, d time.Duration) {
	if sm == nil {
		return
	}
	sm.decisionTotal.Inc(ctx, AttrDecision.String(decision), AttrResult.String(result))
	sm.decisionDuration.RecordDuration(ctx, d, AttrDecision.String(decision))
}

// RecordApprovedRevenue records revenue booked for a business line
func (sm *SalesMetrics) RecordApprovedRevenue(ctx context.Context, businessLine string, amount float64) {
	if sm == nil {
		return
	}
	sm.revenueCents.Add(ctx, toCents(amount), AttrBusinessLine.String(businessLine))
}

// RecordCommission records a credited commission for a role
func (sm *SalesMetrics) RecordCommission(ctx context.Context, role string, amount float64) {
	if sm == nil {
		return
	}
	sm.commissionCents.Add(ctx, toCents(amount), AttrRole.String(role))
}

// RecordGoalSyncFailure records a failed goal tracker notification
func (sm *SalesMetrics) RecordGoalSyncFailure(ctx context.Context) {
	if sm == nil {
		return
	}
	sm.goalSyncFailures.Inc(ctx)
}

// RecordPendingQueueLength records the current decision queue size
func (sm *SalesMetrics) RecordPendingQueueLength(ctx context.Context, n int64) {
	if sm == nil {
		return
	}
	sm.pendingQueueLength.Record(ctx, n)
}

// Counters are integral; negative amounts never reach them
func toCents(amount float64) int64 {
	if amount <= 0 {
		return 0
	}
	return int64(amount*100 + 0.5)
}

// StartPeriodicCollection polls the queue provider every interval (default: 1 minute).
// This is non-blocking - use Stop() to stop collection.
func (sm *SalesMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if sm == nil {
		return
	}
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go sm.runPeriodicCollection(ctx, interval)
	})
}

func (sm *SalesMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.collectQueueLength(ctx)

	for {
		select {
		case <-sm.stopChan:
			sm.logger.Info("Stopping periodic sales metrics collection")
			return
		case <-ctx.Done():
			sm.logger.Info("Context cancelled, stopping periodic sales metrics collection")
			return
		case <-ticker.C:
			sm.collectQueueLength(ctx)
		}
	}
}

func (sm *SalesMetrics) collectQueueLength(ctx context.Context) {
	if sm.queueProvider == nil {
		sm.logger.Debug("No queue provider configured, skipping pending queue collection")
		return
	}
	n, err := sm.queueProvider.CountPending(ctx)
	if err != nil {
		sm.logger.Warn("Failed to count pending sales", zap.Error(err))
		return
	}
	sm.RecordPendingQueueLength(ctx, n)
}

// Stop stops the periodic collection.
func (sm *SalesMetrics) Stop() {
	if sm == nil {
		return
	}
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewSalesMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
