package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	catalogapp "github.com/salesops/backend/internal/application/catalog"
	commissionapp "github.com/salesops/backend/internal/application/commission"
	ingestionapp "github.com/salesops/backend/internal/application/ingestion"
	ledgerapp "github.com/salesops/backend/internal/application/ledger"
	reportapp "github.com/salesops/backend/internal/application/report"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/interfaces/http/dto"
	"github.com/salesops/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// ==================== Mock services ====================

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) ListPending(ctx context.Context) ([]approvalapp.PendingSaleResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]approvalapp.PendingSaleResponse), args.Error(1)
}

func (m *MockApprovalService) Approve(ctx context.Context, saleID uuid.UUID, req approvalapp.ApproveSaleRequest) (*approvalapp.ApprovalOutcome, error) {
	args := m.Called(ctx, saleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.ApprovalOutcome), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, saleID uuid.UUID, req approvalapp.RejectSaleRequest) (*approvalapp.PendingSaleResponse, error) {
	args := m.Called(ctx, saleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.PendingSaleResponse), args.Error(1)
}

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) RecordCallSale(ctx context.Context, req ingestionapp.RecordCallSaleRequest) (*approvalapp.PendingSaleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.PendingSaleResponse), args.Error(1)
}

func (m *MockIngestionService) RecordLeadConversion(ctx context.Context, req ingestionapp.RecordLeadConversionRequest) (*approvalapp.PendingSaleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.PendingSaleResponse), args.Error(1)
}

type MockCommissionService struct {
	mock.Mock
}

func (m *MockCommissionService) SetRewardConfig(ctx context.Context, req commissionapp.RewardConfigRequest) (*commissionapp.RewardConfigResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commissionapp.RewardConfigResponse), args.Error(1)
}

func (m *MockCommissionService) Statement(ctx context.Context, userID uuid.UUID, from, to time.Time) (*commissionapp.StatementResponse, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commissionapp.StatementResponse), args.Error(1)
}

func (m *MockCommissionService) Preview(ctx context.Context, req commissionapp.PreviewRequest) (*commission.Breakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Breakdown), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context, q reportapp.BPOQuery) (*reportapp.BPOReport, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.BPOReport), args.Error(1)
}

func (m *MockReportService) BusinessLines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportService) Warm(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordMovement(ctx context.Context, req ledgerapp.RecordMovementRequest) (*approvalapp.MovementResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.MovementResponse), args.Error(1)
}

func (m *MockLedgerService) ReverseMovement(ctx context.Context, id uuid.UUID) (*approvalapp.MovementResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approvalapp.MovementResponse), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

// ==================== Request helpers ====================

// serve runs a single request through an engine with route registered
func serve(t *testing.T, method, route, target string, body any, h gin.HandlerFunc) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	engine := gin.New()
	engine.Handle(method, route, h)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// decodeData re-decodes the envelope's data into out
func decodeData(t *testing.T, resp dto.Response, out any) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}
