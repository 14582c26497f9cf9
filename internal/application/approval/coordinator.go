package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainapproval "github.com/salesops/backend/internal/domain/approval"
	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/goals"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GoalSyncWarning is returned to the caller when the goals tracker could not be notified
const GoalSyncWarning = "Sale approved, but goal sync may be delayed"

// Coordinator runs the approve/reject workflow over pending sales from both
// source feeds. It holds no locks: the store's conditional transition decides
// which of several concurrent deciders wins.
type Coordinator struct {
	saleRepo       sales.PendingSaleRepository
	store          domainapproval.Store
	products       catalog.ProductDirectory
	rewardConfigs  commission.RewardConfigRepository
	records        commission.RecordRepository
	engine         *commission.Engine
	defaults       commission.Defaults
	notifier       goals.Notifier
	eventPublisher shared.EventPublisher
	metrics        *telemetry.SalesMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	saleRepo sales.PendingSaleRepository,
	store domainapproval.Store,
	products catalog.ProductDirectory,
	rewardConfigs commission.RewardConfigRepository,
	records commission.RecordRepository,
	notifier goals.Notifier,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		saleRepo:      saleRepo,
		store:         store,
		products:      products,
		rewardConfigs: rewardConfigs,
		records:       records,
		engine:        commission.NewEngine(),
		defaults:      commission.DefaultRewardConfigs(),
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for report refresh and other subscribers
func (c *Coordinator) SetEventPublisher(publisher shared.EventPublisher) {
	c.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (c *Coordinator) SetMetrics(metrics *telemetry.SalesMetrics) {
	c.metrics = metrics
}

// SetDefaults overrides the role defaults used when no reward config is stored
func (c *Coordinator) SetDefaults(defaults commission.Defaults) {
	c.defaults = defaults
}

// ListPending returns the sales awaiting a decision, most recent first
func (c *Coordinator) ListPending(ctx context.Context) ([]PendingSaleResponse, error) {
	pending, err := c.saleRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return ToPendingSaleResponses(pending), nil
}

// Approve approves a pending sale, crediting commissions and booking revenue
func (c *Coordinator) Approve(ctx context.Context, saleID uuid.UUID, req ApproveSaleRequest) (outcome *ApprovalOutcome, err error) {
	ctx, span := telemetry.StartSpan(ctx, "approval.Approve", attribute.String("sale.id", saleID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	telemetry.WithDecisionLabels(ctx, telemetry.DecisionApprove, "", func(ctx context.Context) {
		outcome, err = c.approve(ctx, saleID, req)
	})
	c.metrics.RecordDecision(ctx, telemetry.DecisionApprove, decisionResult(err), time.Since(start))
	return outcome, err
}

func (c *Coordinator) approve(ctx context.Context, saleID uuid.UUID, req ApproveSaleRequest) (*ApprovalOutcome, error) {
	sale, err := c.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsPending() {
		return nil, notPending(sale)
	}

	product, err := c.resolveProduct(ctx, sale, req.ProductID)
	if err != nil {
		return nil, err
	}

	decidedAt := c.now()
	revenue := product.RevenueFor(sale.Amount)

	records, err := c.computeCommissions(ctx, sale, revenue, decidedAt)
	if err != nil {
		return nil, err
	}

	movement, err := ledger.NewApprovedSaleMovement(product.BusinessLine, revenue, sale.ID, decidedAt)
	if err != nil {
		return nil, err
	}

	// Apply the transition in memory too so the aggregate raises its events
	if err := sale.Approve(product.ID, product.BusinessLine, decidedAt); err != nil {
		return nil, err
	}

	won, err := c.store.CommitApproval(ctx, domainapproval.Commit{
		SaleID:      sale.ID,
		ProductID:   product.ID,
		DecidedAt:   decidedAt,
		Commissions: records,
		Movement:    movement,
	})
	if err != nil {
		c.logger.Error("failed to commit sale approval",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}
	if !won {
		c.logger.Info("sale approval lost to a concurrent decision",
			zap.String("sale_id", sale.ID.String()),
		)
		return nil, shared.NewDomainError(shared.CodeNotPending, "Sale has already been processed")
	}

	c.logger.Info("sale approved",
		zap.String("sale_id", sale.ID.String()),
		zap.String("kind", sale.Kind.String()),
		zap.String("business_line", product.BusinessLine),
		zap.String("revenue", revenue.String()),
		zap.Int("commission_records", len(records)),
	)
	c.metrics.RecordApprovedRevenue(ctx, product.BusinessLine, revenue.InexactFloat64())
	for _, r := range records {
		c.metrics.RecordCommission(ctx, r.Role.String(), r.ComputedAmount.InexactFloat64())
	}

	c.publishEvents(ctx, sale)

	outcome := ToApprovalOutcome(sale, product, records, movement)
	if err := c.notifyGoals(ctx, sale, decidedAt); err != nil {
		outcome.Warnings = append(outcome.Warnings, GoalSyncWarning)
	}
	return outcome, nil
}

// Reject rejects a pending sale with a mandatory reason
func (c *Coordinator) Reject(ctx context.Context, saleID uuid.UUID, req RejectSaleRequest) (resp *PendingSaleResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "approval.Reject", attribute.String("sale.id", saleID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	resp, err = c.reject(ctx, saleID, req)
	c.metrics.RecordDecision(ctx, telemetry.DecisionReject, decisionResult(err), time.Since(start))
	return resp, err
}

func (c *Coordinator) reject(ctx context.Context, saleID uuid.UUID, req RejectSaleRequest) (*PendingSaleResponse, error) {
	sale, err := c.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	decidedAt := c.now()
	if err := sale.Reject(req.Reason, decidedAt); err != nil {
		return nil, err
	}

	won, err := c.saleRepo.TransitionToRejected(ctx, sale.ID, sale.RejectionReason, decidedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reject sale: %w", err)
	}
	if !won {
		return nil, shared.NewDomainError(shared.CodeNotPending, "Sale has already been processed")
	}

	c.logger.Info("sale rejected",
		zap.String("sale_id", sale.ID.String()),
		zap.String("kind", sale.Kind.String()),
		zap.String("reason", sale.RejectionReason),
	)

	c.publishEvents(ctx, sale)

	resp := ToPendingSaleResponse(sale)
	return &resp, nil
}

// resolveProduct picks the caller's product, else the one recorded on the sale
func (c *Coordinator) resolveProduct(ctx context.Context, sale *sales.PendingSale, override *uuid.UUID) (*catalog.Product, error) {
	productID, ok := sale.ResolveProductID(override)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeProductUnresolved, "No product selected for the sale")
	}

	product, err := c.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeProductUnresolved, fmt.Sprintf("Product %s does not exist", productID))
		}
		return nil, err
	}
	return product, nil
}

// computeCommissions runs the engine once per participant against the same revenue
func (c *Coordinator) computeCommissions(ctx context.Context, sale *sales.PendingSale, revenue decimal.Decimal, at time.Time) ([]*commission.Record, error) {
	period := commission.MonthOf(at)
	participants := sale.Participants()
	records := make([]*commission.Record, 0, len(participants))

	for _, p := range participants {
		cfg, err := commission.ResolveConfig(ctx, c.rewardConfigs, c.defaults, p.UserID, p.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s reward config: %w", p.Role, err)
		}

		leaderboard, err := c.records.Leaderboard(ctx, p.Role, period)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s leaderboard: %w", p.Role, err)
		}

		breakdown, err := c.engine.Compute(cfg, commission.FactsFor(p.UserID, revenue, leaderboard))
		if err != nil {
			return nil, err
		}
		if breakdown.TierGap {
			c.logger.Warn("sale count falls between reward tiers, no base commission",
				zap.String("sale_id", sale.ID.String()),
				zap.String("role", p.Role.String()),
				zap.String("user_id", p.UserID.String()),
			)
		}

		records = append(records, commission.NewRecord(sale.ID, p, revenue, cfg.Model, breakdown, at))
	}
	return records, nil
}

// notifyGoals tells the goals tracker about each credited performer.
// Failures are logged and reported, never returned as approval errors.
func (c *Coordinator) notifyGoals(ctx context.Context, sale *sales.PendingSale, at time.Time) error {
	if c.notifier == nil {
		return nil
	}

	participants := sale.Participants()
	notifications := make([]goals.Notification, 0, len(participants))
	for _, p := range participants {
		notifications = append(notifications, goals.NewSaleApprovedNotification(p.UserID, sale.ID, p.Role.String(), at))
	}

	if err := c.notifier.Notify(ctx, notifications...); err != nil {
		c.logger.Warn("goal sync failed after approval",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
		c.metrics.RecordGoalSyncFailure(ctx)
		return err
	}
	return nil
}

func (c *Coordinator) publishEvents(ctx context.Context, sale *sales.PendingSale) {
	events := sale.PullDomainEvents()
	if c.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := c.eventPublisher.Publish(ctx, event); err != nil {
			c.logger.Warn("failed to publish sale event",
				zap.String("sale_id", sale.ID.String()),
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
}

func notPending(sale *sales.PendingSale) error {
	return shared.NewDomainError(shared.CodeNotPending, fmt.Sprintf("Sale is already %s", sale.Status))
}

func decisionResult(err error) string {
	if err == nil {
		return telemetry.ResultSuccess
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return telemetry.ResultError
}
