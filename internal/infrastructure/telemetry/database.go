package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls database instrumentation
type DBConfig struct {
	Tracing       bool          // register otelgorm spans
	LogFullSQL    bool          // keep bound variables in span statements; development only
	SlowThreshold time.Duration // statements above it are flagged on their span
	System        string        // db.system attribute; defaults to the dialector name
}

type dbStartKey struct{}

// DBInstrumentation records statement latency and connection pool usage
type DBInstrumentation struct {
	config       DBConfig
	queryLatency *Histogram
	queryErrors  *Counter
	registration metric.Registration
}

// InstrumentDB registers otelgorm (when tracing is on), statement metric
// callbacks and observable pool gauges on db
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBInstrumentation, error) {
	if cfg.System == "" {
		cfg.System = db.Dialector.Name()
	}
	inst := &DBInstrumentation{config: cfg}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.System)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, fmt.Errorf("failed to register otelgorm: %w", err)
		}
	}

	var err error
	inst.queryLatency, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	inst.queryErrors, err = NewCounter(meter, "db_query_errors_total", "Failed database statements", "{errors}")
	if err != nil {
		return nil, err
	}

	if err := inst.registerCallbacks(db); err != nil {
		return nil, err
	}
	if err := inst.registerPoolGauges(db, meter); err != nil {
		return nil, err
	}

	logger.Info("Database instrumentation enabled",
		zap.String("system", cfg.System),
		zap.Bool("tracing", cfg.Tracing),
		zap.Duration("slow_threshold", cfg.SlowThreshold),
	)
	return inst, nil
}

func (i *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("sales_db:before_create", i.before),
		cb.Create().After("gorm:create").Register("sales_db:after_create", i.after("insert")),
		cb.Query().Before("gorm:query").Register("sales_db:before_query", i.before),
		cb.Query().After("gorm:query").Register("sales_db:after_query", i.after("select")),
		cb.Update().Before("gorm:update").Register("sales_db:before_update", i.before),
		cb.Update().After("gorm:update").Register("sales_db:after_update", i.after("update")),
		cb.Delete().Before("gorm:delete").Register("sales_db:before_delete", i.before),
		cb.Delete().After("gorm:delete").Register("sales_db:after_delete", i.after("delete")),
		cb.Row().Before("gorm:row").Register("sales_db:before_row", i.before),
		cb.Row().After("gorm:row").Register("sales_db:after_row", i.after("select")),
		cb.Raw().Before("gorm:raw").Register("sales_db:before_raw", i.before),
		cb.Raw().After("gorm:raw").Register("sales_db:after_raw", i.after("raw")),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to register db metric callbacks: %w", err)
	}
	return nil
}

func (i *DBInstrumentation) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, dbStartKey{}, time.Now())
}

func (i *DBInstrumentation) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(dbStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		attrs := []attribute.KeyValue{
			AttrDBOperation.String(operation),
			AttrDBTable.String(db.Statement.Table),
		}
		i.queryLatency.RecordDuration(ctx, elapsed, attrs...)

		failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)
		if failed {
			i.queryErrors.Inc(ctx, attrs...)
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if failed {
			span.SetStatus(codes.Error, db.Error.Error())
		}
		if i.config.SlowThreshold > 0 && elapsed > i.config.SlowThreshold {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", i.config.SlowThreshold.Milliseconds()),
			))
		}
	}
}

func (i *DBInstrumentation) registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	open, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{waits}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool wait counter: %w", err)
	}

	state := attribute.Key("db.pool.state")
	i.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(open, int64(stats.InUse), metric.WithAttributes(state.String("in_use")))
		o.ObserveInt64(open, int64(stats.Idle), metric.WithAttributes(state.String("idle")))
		o.ObserveInt64(open, int64(stats.MaxOpenConnections), metric.WithAttributes(state.String("max")))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}

// Close stops pool observation; gorm callbacks live as long as the DB
func (i *DBInstrumentation) Close() error {
	if i.registration == nil {
		return nil
	}
	return i.registration.Unregister()
}
