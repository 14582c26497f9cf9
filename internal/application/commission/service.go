package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TierInput is one band of a tiered config
type TierInput struct {
	MinCount int             `json:"min_count" binding:"min=0"`
	MaxCount int             `json:"max_count" binding:"min=0"`
	Percent  decimal.Decimal `json:"percent"`
	Bonus    decimal.Decimal `json:"bonus"`
}

// RewardConfigRequest describes a reward config. A nil UserID sets the role default.
type RewardConfigRequest struct {
	UserID            *uuid.UUID       `json:"user_id"`
	Role              string           `json:"role" binding:"required,oneof=sdr closer"`
	Model             string           `json:"model" binding:"required,oneof=percentual fixed tiered"`
	BasePercent       decimal.Decimal  `json:"base_percent"`
	AmountPerSale     decimal.Decimal  `json:"amount_per_sale"`
	Tiers             []TierInput      `json:"tiers"`
	MonthlyGoalCount  int              `json:"monthly_goal_count" binding:"min=0"`
	MonthlyGoalBonus  *decimal.Decimal `json:"monthly_goal_bonus"`
	TopPerformerBonus *decimal.Decimal `json:"top_performer_bonus"`
}

// PreviewRequest runs the engine against hypothetical facts
type PreviewRequest struct {
	Config              RewardConfigRequest `json:"config" binding:"required"`
	Revenue             decimal.Decimal     `json:"revenue"`
	SaleCountThisPeriod int                 `json:"sale_count_this_period" binding:"min=0"`
	RankThisPeriod      *int                `json:"rank_this_period"`
}

// RewardConfigResponse is a stored reward config
type RewardConfigResponse struct {
	ID                uuid.UUID         `json:"id"`
	UserID            *uuid.UUID        `json:"user_id,omitempty"`
	Role              string            `json:"role"`
	Model             string            `json:"model"`
	BasePercent       decimal.Decimal   `json:"base_percent"`
	AmountPerSale     decimal.Decimal   `json:"amount_per_sale"`
	Tiers             []commission.Tier `json:"tiers,omitempty"`
	MonthlyGoalCount  int               `json:"monthly_goal_count,omitempty"`
	MonthlyGoalBonus  *decimal.Decimal  `json:"monthly_goal_bonus,omitempty"`
	TopPerformerBonus *decimal.Decimal  `json:"top_performer_bonus,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// StatementLine is one commission record of a statement
type StatementLine struct {
	SaleID         uuid.UUID       `json:"sale_id"`
	Role           string          `json:"role"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Bonus          decimal.Decimal `json:"bonus"`
	ComputedAmount decimal.Decimal `json:"computed_amount"`
	Model          string          `json:"model"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StatementResponse lists a performer's commissions over a period
type StatementResponse struct {
	UserID uuid.UUID       `json:"user_id"`
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Lines  []StatementLine `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// Service manages reward configs and exposes commission statements
type Service struct {
	configs commission.RewardConfigRepository
	records commission.RecordRepository
	engine  *commission.Engine
	logger  *zap.Logger
}

// NewService creates a new commission Service
func NewService(configs commission.RewardConfigRepository, records commission.RecordRepository, logger *zap.Logger) *Service {
	return &Service{
		configs: configs,
		records: records,
		engine:  commission.NewEngine(),
		logger:  logger,
	}
}

// SetRewardConfig validates and upserts a user or role-default config
func (s *Service) SetRewardConfig(ctx context.Context, req RewardConfigRequest) (*RewardConfigResponse, error) {
	cfg, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := s.configs.Save(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to save reward config: %w", err)
	}

	fields := []zap.Field{
		zap.String("role", cfg.Role.String()),
		zap.String("model", cfg.Model.String()),
	}
	if cfg.UserID != nil {
		fields = append(fields, zap.String("user_id", cfg.UserID.String()))
	}
	s.logger.Info("reward config updated", fields...)

	resp := toRewardConfigResponse(cfg)
	return &resp, nil
}

// Statement lists the commission records of a performer within [from, to)
func (s *Service) Statement(ctx context.Context, userID uuid.UUID, from, to time.Time) (*StatementResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "User ID is required")
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Statement period is empty")
	}

	period := commission.Period{From: from, To: to}
	records, err := s.records.ListByUser(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load commission records: %w", err)
	}

	st := commission.NewStatement(userID, period, records)
	lines := make([]StatementLine, len(st.Records))
	for i, r := range st.Records {
		lines[i] = StatementLine{
			SaleID:         r.SaleID,
			Role:           r.Role.String(),
			BaseAmount:     r.BaseAmount,
			Bonus:          r.Bonus,
			ComputedAmount: r.ComputedAmount,
			Model:          r.Model.String(),
			CreatedAt:      r.CreatedAt,
		}
	}
	return &StatementResponse{
		UserID: st.UserID,
		From:   st.Period.From,
		To:     st.Period.To,
		Lines:  lines,
		Total:  st.Total,
	}, nil
}

// Preview computes the commission a config would pay for the given facts
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*commission.Breakdown, error) {
	cfg, err := req.Config.toDomain()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result, err := s.engine.Compute(cfg, commission.Facts{
		Revenue:             req.Revenue,
		SaleCountThisPeriod: req.SaleCountThisPeriod,
		RankThisPeriod:      req.RankThisPeriod,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r RewardConfigRequest) toDomain() (commission.RewardConfig, error) {
	role := sales.Role(r.Role)
	if !role.IsValid() {
		return commission.RewardConfig{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid role %q", r.Role))
	}

	var cfg commission.RewardConfig
	switch commission.Model(r.Model) {
	case commission.ModelPercentual:
		cfg = commission.NewPercentualConfig(role, r.BasePercent)
	case commission.ModelFixed:
		cfg = commission.NewFixedConfig(role, r.AmountPerSale)
	case commission.ModelTiered:
		tiers := make([]commission.Tier, len(r.Tiers))
		for i, t := range r.Tiers {
			tiers[i] = commission.Tier(t)
		}
		cfg = commission.NewTieredConfig(role, tiers...)
	default:
		return commission.RewardConfig{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid reward model %q", r.Model))
	}

	if r.UserID != nil && *r.UserID != uuid.Nil {
		cfg = cfg.ForUser(*r.UserID)
	}
	if r.MonthlyGoalBonus != nil {
		cfg = cfg.WithMonthlyGoal(r.MonthlyGoalCount, *r.MonthlyGoalBonus)
	}
	if r.TopPerformerBonus != nil {
		cfg = cfg.WithTopPerformerBonus(*r.TopPerformerBonus)
	}
	return cfg, nil
}

func toRewardConfigResponse(cfg commission.RewardConfig) RewardConfigResponse {
	return RewardConfigResponse{
		ID:                cfg.ID,
		UserID:            cfg.UserID,
		Role:              cfg.Role.String(),
		Model:             cfg.Model.String(),
		BasePercent:       cfg.BasePercent,
		AmountPerSale:     cfg.AmountPerSale,
		Tiers:             cfg.SortedTiers(),
		MonthlyGoalCount:  cfg.MonthlyGoalCount,
		MonthlyGoalBonus:  cfg.MonthlyGoalBonus,
		TopPerformerBonus: cfg.TopPerformerBonus,
		UpdatedAt:         cfg.UpdatedAt,
	}
}
