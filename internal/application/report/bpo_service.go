package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/report"
	"github.com/salesops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultCacheTTL is used when no TTL is configured
const DefaultCacheTTL = 15 * time.Minute

// ReportCache memoizes serialized reports. Implementations must treat every
// error as a cache failure the service can recover from by recomputing.
type ReportCache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// BPOQuery selects a report. From and To are inclusive calendar dates.
type BPOQuery struct {
	BusinessLine string
	Granularity  report.Granularity
	From         *time.Time
	To           *time.Time
}

// BPOReport is the per-period profitability report of one business line
type BPOReport struct {
	BusinessLine string          `json:"business_line"`
	Granularity  string          `json:"granularity"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	Buckets      []report.Bucket `json:"buckets"`
	Summary      report.Summary  `json:"summary"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// BPOService builds business line profitability reports from the ledger
type BPOService struct {
	movements ledger.MovementRepository
	cache     ReportCache
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewBPOService creates a new BPOService. cache may be nil to disable memoization.
func NewBPOService(movements ledger.MovementRepository, cache ReportCache, ttl time.Duration, logger *zap.Logger) *BPOService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &BPOService{
		movements: movements,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Report returns the report for the query, from cache when possible
func (s *BPOService) Report(ctx context.Context, q BPOQuery) (*BPOReport, error) {
	q.BusinessLine = catalog.NormalizeBusinessLine(q.BusinessLine)
	if q.BusinessLine == "" {
		return nil, invalidQuery("Business line is required")
	}
	if !q.Granularity.IsValid() {
		return nil, invalidQuery(fmt.Sprintf("Invalid granularity %q", q.Granularity))
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, invalidQuery("From date must not be after to date")
	}

	key := CacheKey(q)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	result, err := s.compute(ctx, q)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, result)
	return result, nil
}

// BusinessLines lists the business lines present in the ledger
func (s *BPOService) BusinessLines(ctx context.Context) ([]string, error) {
	return s.movements.BusinessLines(ctx)
}

// InvalidateLine drops every cached report of the business line
func (s *BPOService) InvalidateLine(ctx context.Context, businessLine string) error {
	if s.cache == nil {
		return nil
	}
	prefix := CacheKeyPrefix(businessLine)
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		return fmt.Errorf("failed to invalidate report cache for %s: %w", businessLine, err)
	}
	s.logger.Debug("BPO report cache invalidated", zap.String("business_line", businessLine))
	return nil
}

// Warm recomputes the all-time monthly report of every business line and
// stores it in the cache. It returns the number of reports written.
func (s *BPOService) Warm(ctx context.Context) (int, error) {
	lines, err := s.movements.BusinessLines(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list business lines: %w", err)
	}

	warmed := 0
	for _, line := range lines {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		q := BPOQuery{BusinessLine: line, Granularity: report.GranularityMonthly}
		result, err := s.compute(ctx, q)
		if err != nil {
			s.logger.Warn("Failed to warm BPO report",
				zap.String("business_line", line),
				zap.Error(err),
			)
			continue
		}
		s.toCache(ctx, CacheKey(q), result)
		warmed++
	}
	return warmed, nil
}

func (s *BPOService) compute(ctx context.Context, q BPOQuery) (*BPOReport, error) {
	filter := ledger.Filter{BusinessLine: q.BusinessLine}
	if q.From != nil {
		filter.From = ledger.TruncateToDate(*q.From)
	}
	if q.To != nil {
		filter.To = ledger.TruncateToDate(*q.To)
	}

	movements, err := s.movements.ListCompleted(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}

	buckets := report.Aggregate(movements, q.BusinessLine, q.Granularity)
	return &BPOReport{
		BusinessLine: q.BusinessLine,
		Granularity:  q.Granularity.String(),
		From:         formatDate(q.From),
		To:           formatDate(q.To),
		Buckets:      buckets,
		Summary:      report.Summarize(buckets),
		GeneratedAt:  s.now(),
	}, nil
}

func (s *BPOService) fromCache(ctx context.Context, key string) *BPOReport {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("BPO report cache read failed, recomputing", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var cached BPOReport
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("Discarding unreadable cached BPO report", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &cached
}

func (s *BPOService) toCache(ctx context.Context, key string, r *BPOReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		s.logger.Warn("Failed to encode BPO report", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("BPO report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// CacheKeyPrefix returns the key prefix shared by every report of a business line
func CacheKeyPrefix(businessLine string) string {
	return "bpo:" + catalog.NormalizeBusinessLine(businessLine) + ":"
}

// CacheKey returns bpo:<line>:<granularity>:<from>:<to>, with open bounds left empty
func CacheKey(q BPOQuery) string {
	return CacheKeyPrefix(q.BusinessLine) + q.Granularity.String() + ":" + formatDate(q.From) + ":" + formatDate(q.To)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ledger.DateLayout)
}

func invalidQuery(message string) error {
	return shared.NewDomainError(shared.CodeInvalidInput, message)
}
