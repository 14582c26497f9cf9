package approval

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainapproval "github.com/salesops/backend/internal/domain/approval"
	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/goals"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPendingSaleRepository is a mock implementation of PendingSaleRepository
type MockPendingSaleRepository struct {
	mock.Mock
}

func (m *MockPendingSaleRepository) ListPending(ctx context.Context) ([]*sales.PendingSale, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.PendingSale), args.Error(1)
}

func (m *MockPendingSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.PendingSale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.PendingSale), args.Error(1)
}

func (m *MockPendingSaleRepository) Append(ctx context.Context, sale *sales.PendingSale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockPendingSaleRepository) TransitionToRejected(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, reason, at)
	return args.Bool(0), args.Error(1)
}

// MockApprovalStore is a mock implementation of approval.Store
type MockApprovalStore struct {
	mock.Mock
}

func (m *MockApprovalStore) CommitApproval(ctx context.Context, commit domainapproval.Commit) (bool, error) {
	args := m.Called(ctx, commit)
	return args.Bool(0), args.Error(1)
}

// MockProductDirectory is a mock implementation of ProductDirectory
type MockProductDirectory struct {
	mock.Mock
}

func (m *MockProductDirectory) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductDirectory) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductDirectory) List(ctx context.Context) ([]*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

// MockRewardConfigRepository is a mock implementation of RewardConfigRepository
type MockRewardConfigRepository struct {
	mock.Mock
}

func (m *MockRewardConfigRepository) FindForUser(ctx context.Context, userID uuid.UUID, role sales.Role) (*commission.RewardConfig, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.RewardConfig), args.Error(1)
}

func (m *MockRewardConfigRepository) FindRoleDefault(ctx context.Context, role sales.Role) (*commission.RewardConfig, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.RewardConfig), args.Error(1)
}

func (m *MockRewardConfigRepository) Save(ctx context.Context, cfg *commission.RewardConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of commission.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]*commission.Record, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commission.Record), args.Error(1)
}

func (m *MockRecordRepository) ListByUser(ctx context.Context, userID uuid.UUID, period commission.Period) ([]*commission.Record, error) {
	args := m.Called(ctx, userID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commission.Record), args.Error(1)
}

func (m *MockRecordRepository) Leaderboard(ctx context.Context, role sales.Role, period commission.Period) ([]commission.PerformerCount, error) {
	args := m.Called(ctx, role, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.PerformerCount), args.Error(1)
}

// MockNotifier is a mock implementation of goals.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, notifications ...goals.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
