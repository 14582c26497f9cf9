package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/report"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMovementRepository is a mock implementation of ledger.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movement *ledger.FinancialMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) ListCompleted(ctx context.Context, filter ledger.Filter) ([]*ledger.FinancialMovement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.FinancialMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinancialMovement), args.Error(1)
}

func (m *MockMovementRepository) BusinessLines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReportCache is a mock implementation of ReportCache
type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockReportCache) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func completedIn(line string, amount int64, on string) *ledger.FinancialMovement {
	d, _ := ledger.ParseDate(on)
	return &ledger.FinancialMovement{
		ID:           uuid.New(),
		BusinessLine: line,
		Direction:    ledger.DirectionIn,
		Amount:       decimal.NewFromInt(amount),
		Category:     ledger.ApprovedSaleCategory(line),
		OccurredOn:   d,
		Status:       ledger.MovementStatusCompleted,
	}
}

func dateRef(t *testing.T, value string) *time.Time {
	d, err := ledger.ParseDate(value)
	require.NoError(t, err)
	return &d
}

// ============================================
// Report Tests
// ============================================

func TestBPOService_Report_ComputesAndCaches(t *testing.T) {
	repo := new(MockMovementRepository)
	cache := new(MockReportCache)
	svc := NewBPOService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	from := dateRef(t, "2024-01-01")
	to := dateRef(t, "2024-01-31")
	key := "bpo:mentoria:monthly:2024-01-01:2024-01-31"

	repo.On("ListCompleted", ctx, ledger.Filter{BusinessLine: "mentoria", From: *from, To: *to}).
		Return([]*ledger.FinancialMovement{
			completedIn("mentoria", 100, "2024-01-05"),
			completedIn("mentoria", 50, "2024-01-20"),
		}, nil)
	cache.On("Get", ctx, key).Return(nil, false, nil)
	cache.On("Set", ctx, key, mock.Anything, time.Minute).Return(nil)

	result, err := svc.Report(ctx, BPOQuery{
		BusinessLine: " Mentoria ",
		Granularity:  report.GranularityMonthly,
		From:         from,
		To:           to,
	})

	require.NoError(t, err)
	assert.Equal(t, "mentoria", result.BusinessLine)
	assert.Equal(t, "2024-01-01", result.From)
	require.Len(t, result.Buckets, 1)
	assert.Equal(t, "2024-01", result.Buckets[0].PeriodKey)
	assert.True(t, result.Buckets[0].TotalIn.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.Buckets[0].MarginPercent.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, result.Summary.MovementCount)
	cache.AssertExpectations(t)
}

func TestBPOService_Report_CacheHit(t *testing.T) {
	repo := new(MockMovementRepository)
	cache := new(MockReportCache)
	svc := NewBPOService(repo, cache, 0, zap.NewNop())
	ctx := context.Background()

	cached := BPOReport{
		BusinessLine: "eventos",
		Granularity:  "yearly",
		Buckets:      []report.Bucket{{BusinessLine: "eventos", PeriodKey: "2024", MovementCount: 3}},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	cache.On("Get", ctx, "bpo:eventos:yearly::").Return(data, true, nil)

	result, err := svc.Report(ctx, BPOQuery{BusinessLine: "eventos", Granularity: report.GranularityYearly})

	require.NoError(t, err)
	require.Len(t, result.Buckets, 1)
	assert.Equal(t, 3, result.Buckets[0].MovementCount)
	repo.AssertNotCalled(t, "ListCompleted", mock.Anything, mock.Anything)
}

func TestBPOService_Report_CacheFailuresDegradeToRecompute(t *testing.T) {
	repo := new(MockMovementRepository)
	cache := new(MockReportCache)
	svc := NewBPOService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	repo.On("ListCompleted", ctx, mock.Anything).Return([]*ledger.FinancialMovement{
		completedIn("clinica", 10, "2024-02-01"),
	}, nil)
	cache.On("Get", ctx, mock.Anything).Return(nil, false, errors.New("redis: connection refused"))
	cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))

	result, err := svc.Report(ctx, BPOQuery{BusinessLine: "clinica", Granularity: report.GranularityDaily})

	require.NoError(t, err)
	require.Len(t, result.Buckets, 1)
	assert.Equal(t, "2024-02-01", result.Buckets[0].PeriodKey)
}

func TestBPOService_Report_CorruptCacheEntryIsRecomputed(t *testing.T) {
	repo := new(MockMovementRepository)
	cache := new(MockReportCache)
	svc := NewBPOService(repo, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	repo.On("ListCompleted", ctx, mock.Anything).Return([]*ledger.FinancialMovement{}, nil)
	cache.On("Get", ctx, mock.Anything).Return([]byte("{not json"), true, nil)
	cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Report(ctx, BPOQuery{BusinessLine: "clinica", Granularity: report.GranularityWeekly})

	require.NoError(t, err)
	assert.Empty(t, result.Buckets)
	repo.AssertNumberOfCalls(t, "ListCompleted", 1)
}

func TestBPOService_Report_WithoutCache(t *testing.T) {
	repo := new(MockMovementRepository)
	svc := NewBPOService(repo, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	repo.On("ListCompleted", ctx, ledger.Filter{BusinessLine: "mentoria"}).Return([]*ledger.FinancialMovement{}, nil)

	result, err := svc.Report(ctx, BPOQuery{BusinessLine: "mentoria", Granularity: report.GranularityMonthly})

	require.NoError(t, err)
	assert.Empty(t, result.Buckets)
	assert.True(t, result.Summary.TotalIn.IsZero())
}

func TestBPOService_Report_InvalidQuery(t *testing.T) {
	svc := NewBPOService(new(MockMovementRepository), nil, 0, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name  string
		query BPOQuery
	}{
		{"missing business line", BPOQuery{Granularity: report.GranularityDaily}},
		{"bad granularity", BPOQuery{BusinessLine: "mentoria", Granularity: "hourly"}},
		{"inverted range", BPOQuery{
			BusinessLine: "mentoria",
			Granularity:  report.GranularityDaily,
			From:         dateRef(t, "2024-02-01"),
			To:           dateRef(t, "2024-01-01"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Report(ctx, tt.query)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestBPOService_Report_RepositoryError(t *testing.T) {
	repo := new(MockMovementRepository)
	svc := NewBPOService(repo, nil, 0, zap.NewNop())
	ctx := context.Background()
	repo.On("ListCompleted", ctx, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Report(ctx, BPOQuery{BusinessLine: "mentoria", Granularity: report.GranularityDaily})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db down"))
}

// ============================================
// Cache Maintenance Tests
// ============================================

func TestBPOService_InvalidateLine(t *testing.T) {
	cache := new(MockReportCache)
	svc := NewBPOService(new(MockMovementRepository), cache, 0, zap.NewNop())
	ctx := context.Background()

	cache.On("DeletePrefix", ctx, "bpo:mentoria:").Return(nil).Once()
	require.NoError(t, svc.InvalidateLine(ctx, "Mentoria"))

	cache.On("DeletePrefix", ctx, "bpo:eventos:").Return(errors.New("timeout")).Once()
	assert.Error(t, svc.InvalidateLine(ctx, "eventos"))
}

func TestBPOService_Warm(t *testing.T) {
	repo := new(MockMovementRepository)
	cache := new(MockReportCache)
	svc := NewBPOService(repo, cache, time.Hour, zap.NewNop())
	ctx := context.Background()

	repo.On("BusinessLines", ctx).Return([]string{"clinica", "mentoria"}, nil)
	repo.On("ListCompleted", ctx, ledger.Filter{BusinessLine: "clinica"}).Return(nil, errors.New("timeout"))
	repo.On("ListCompleted", ctx, ledger.Filter{BusinessLine: "mentoria"}).Return([]*ledger.FinancialMovement{
		completedIn("mentoria", 10, "2024-01-01"),
	}, nil)
	cache.On("Set", ctx, "bpo:mentoria:monthly::", mock.Anything, time.Hour).Return(nil)

	warmed, err := svc.Warm(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, warmed)
	cache.AssertExpectations(t)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "bpo:mentoria:weekly::", CacheKey(BPOQuery{BusinessLine: "Mentoria", Granularity: report.GranularityWeekly}))
	assert.True(t, strings.HasPrefix(CacheKey(BPOQuery{BusinessLine: "eventos", Granularity: report.GranularityDaily}), CacheKeyPrefix("EVENTOS")))
}

// ============================================
// SaleApprovedHandler Tests
// ============================================

func TestSaleApprovedHandler(t *testing.T) {
	cache := new(MockReportCache)
	svc := NewBPOService(new(MockMovementRepository), cache, 0, zap.NewNop())
	handler := NewSaleApprovedHandler(svc, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, []string{sales.EventTypeSaleApproved}, handler.EventTypes())

	sale, err := sales.NewLeadConversion(sales.LeadConversionInput{
		LeadName:        "Ana",
		SDRID:           uuid.New(),
		EstimatedAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.NoError(t, sale.Approve(uuid.New(), "mentoria", time.Now()))

	cache.On("DeletePrefix", ctx, "bpo:mentoria:").Return(nil)

	require.NoError(t, handler.Handle(ctx, sale.GetDomainEvents()[0]))
	cache.AssertExpectations(t)

	t.Run("rejects other events", func(t *testing.T) {
		other, err := sales.NewLeadConversion(sales.LeadConversionInput{
			LeadName:        "Bia",
			SDRID:           uuid.New(),
			EstimatedAmount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		require.NoError(t, other.Reject("sem interesse", time.Now()))

		assert.Error(t, handler.Handle(ctx, other.GetDomainEvents()[0]))
	})
}
