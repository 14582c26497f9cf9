package commission

import (
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Facts are the sale and performance inputs a commission is computed from
type Facts struct {
	Revenue             decimal.Decimal
	SaleCountThisPeriod int
	RankThisPeriod      *int // nil when the performer is unranked
}

// Breakdown is the result of one commission computation
type Breakdown struct {
	Base  decimal.Decimal `json:"base"`
	Bonus decimal.Decimal `json:"bonus"`
	Total decimal.Decimal `json:"total"`
	// TierGap is set when a tiered config had no tier for the sale count
	TierGap bool `json:"tier_gap,omitempty"`
}

// Engine computes commissions for a single sale. It has no state and performs
// no I/O, so one instance can be shared by any number of goroutines.
type Engine struct{}

// NewEngine creates a new commission engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute applies the config's reward model to the facts and stacks the
// goal and top performer bonuses on top of it. The config is validated on
// every call, so stored configs can never yield a negative total.
func (e *Engine) Compute(cfg RewardConfig, facts Facts) (Breakdown, error) {
	if err := cfg.Validate(); err != nil {
		return Breakdown{}, err
	}
	if facts.Revenue.IsNegative() {
		return Breakdown{}, shared.NewDomainError(shared.CodeInvalidInput, "Revenue cannot be negative")
	}
	if facts.SaleCountThisPeriod < 0 {
		return Breakdown{}, shared.NewDomainError(shared.CodeInvalidInput, "Sale count cannot be negative")
	}
	if facts.RankThisPeriod != nil && *facts.RankThisPeriod < 1 {
		return Breakdown{}, shared.NewDomainError(shared.CodeInvalidInput, "Rank must be at least 1")
	}

	var result Breakdown
	switch cfg.Model {
	case ModelPercentual:
		result.Base = percentOf(facts.Revenue, cfg.BasePercent)
		result.Bonus = decimal.Zero
	case ModelFixed:
		result.Base = cfg.AmountPerSale
		result.Bonus = decimal.Zero
	case ModelTiered:
		tier, ok := cfg.FindTier(facts.SaleCountThisPeriod)
		if !ok {
			result.Base = decimal.Zero
			result.Bonus = decimal.Zero
			result.TierGap = true
			break
		}
		result.Base = percentOf(facts.Revenue, tier.Percent)
		result.Bonus = tier.Bonus
	default:
		return Breakdown{}, shared.NewDomainError(shared.CodeInvalidInput, "Unknown reward model: "+cfg.Model.String())
	}

	if cfg.MonthlyGoalBonus != nil && cfg.MonthlyGoalCount > 0 && facts.SaleCountThisPeriod >= cfg.MonthlyGoalCount {
		result.Bonus = result.Bonus.Add(*cfg.MonthlyGoalBonus)
	}
	if cfg.TopPerformerBonus != nil && facts.RankThisPeriod != nil && *facts.RankThisPeriod <= TopPerformerRank {
		result.Bonus = result.Bonus.Add(*cfg.TopPerformerBonus)
	}

	result.Base = result.Base.Round(2)
	result.Bonus = result.Bonus.Round(2)
	result.Total = result.Base.Add(result.Bonus)
	return result, nil
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}
