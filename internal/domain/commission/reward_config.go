package commission

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Model identifies one of the mutually exclusive reward models
type Model string

const (
	ModelPercentual Model = "percentual"
	ModelFixed      Model = "fixed"
	ModelTiered     Model = "tiered"
)

// IsValid checks if the model is known
func (m Model) IsValid() bool {
	switch m {
	case ModelPercentual, ModelFixed, ModelTiered:
		return true
	}
	return false
}

// String returns the string representation of Model
func (m Model) String() string {
	return string(m)
}

// TopPerformerRank is the worst rank still eligible for the top performer bonus
const TopPerformerRank = 3

// Tier is a [MinCount, MaxCount] band of a tiered reward, both ends inclusive
type Tier struct {
	MinCount int             `json:"min_count"`
	MaxCount int             `json:"max_count"`
	Percent  decimal.Decimal `json:"percent"`
	Bonus    decimal.Decimal `json:"bonus"`
}

// Contains reports whether count falls inside the tier
func (t Tier) Contains(count int) bool {
	return t.MinCount <= count && count <= t.MaxCount
}

// RewardConfig describes how one performer (or a whole role, when UserID is nil)
// is paid per approved sale. Only the fields of the selected Model are used for
// the base amount; the goal and top performer bonuses stack on any model.
type RewardConfig struct {
	ID                uuid.UUID
	UserID            *uuid.UUID
	Role              sales.Role
	Model             Model
	BasePercent       decimal.Decimal
	AmountPerSale     decimal.Decimal
	Tiers             []Tier
	MonthlyGoalCount  int
	MonthlyGoalBonus  *decimal.Decimal
	TopPerformerBonus *decimal.Decimal
	UpdatedAt         time.Time
}

// NewPercentualConfig creates a config paying basePercent of the revenue
func NewPercentualConfig(role sales.Role, basePercent decimal.Decimal) RewardConfig {
	return RewardConfig{
		ID:          uuid.New(),
		Role:        role,
		Model:       ModelPercentual,
		BasePercent: basePercent,
		UpdatedAt:   time.Now(),
	}
}

// NewFixedConfig creates a config paying a flat amount per sale
func NewFixedConfig(role sales.Role, amountPerSale decimal.Decimal) RewardConfig {
	return RewardConfig{
		ID:            uuid.New(),
		Role:          role,
		Model:         ModelFixed,
		AmountPerSale: amountPerSale,
		UpdatedAt:     time.Now(),
	}
}

// NewTieredConfig creates a config selecting percent and bonus by sale count
func NewTieredConfig(role sales.Role, tiers ...Tier) RewardConfig {
	return RewardConfig{
		ID:        uuid.New(),
		Role:      role,
		Model:     ModelTiered,
		Tiers:     tiers,
		UpdatedAt: time.Now(),
	}
}

// ForUser returns a copy of the config scoped to a single performer
func (c RewardConfig) ForUser(userID uuid.UUID) RewardConfig {
	c.UserID = &userID
	return c
}

// WithMonthlyGoal returns a copy paying bonus once the period count reaches goalCount
func (c RewardConfig) WithMonthlyGoal(goalCount int, bonus decimal.Decimal) RewardConfig {
	c.MonthlyGoalCount = goalCount
	c.MonthlyGoalBonus = &bonus
	return c
}

// WithTopPerformerBonus returns a copy paying bonus to performers ranked in the top three
func (c RewardConfig) WithTopPerformerBonus(bonus decimal.Decimal) RewardConfig {
	c.TopPerformerBonus = &bonus
	return c
}

// SortedTiers returns the tiers ordered by MinCount
func (c RewardConfig) SortedTiers() []Tier {
	tiers := make([]Tier, len(c.Tiers))
	copy(tiers, c.Tiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinCount < tiers[j].MinCount
	})
	return tiers
}

// FindTier returns the tier containing count, if any
func (c RewardConfig) FindTier(count int) (Tier, bool) {
	for _, tier := range c.Tiers {
		if tier.Contains(count) {
			return tier, true
		}
	}
	return Tier{}, false
}

// Validate checks the configuration contract:
// amounts are non-negative, tiers do not overlap and a higher tier never pays
// a lower percent or bonus than the tier below it.
func (c RewardConfig) Validate() error {
	if !c.Role.IsValid() {
		return invalidConfig("unknown role %q", c.Role)
	}
	switch c.Model {
	case ModelPercentual:
		if c.BasePercent.IsNegative() {
			return invalidConfig("base percent cannot be negative")
		}
	case ModelFixed:
		if c.AmountPerSale.IsNegative() {
			return invalidConfig("amount per sale cannot be negative")
		}
	case ModelTiered:
		if err := validateTiers(c.SortedTiers()); err != nil {
			return err
		}
	default:
		return invalidConfig("unknown reward model %q", c.Model)
	}

	if c.MonthlyGoalBonus != nil {
		if c.MonthlyGoalBonus.IsNegative() {
			return invalidConfig("monthly goal bonus cannot be negative")
		}
		if c.MonthlyGoalCount <= 0 {
			return invalidConfig("monthly goal count must be positive when a goal bonus is set")
		}
	}
	if c.TopPerformerBonus != nil && c.TopPerformerBonus.IsNegative() {
		return invalidConfig("top performer bonus cannot be negative")
	}
	return nil
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return invalidConfig("tiered model requires at least one tier")
	}
	for i, tier := range tiers {
		if tier.MinCount < 0 || tier.MaxCount < tier.MinCount {
			return invalidConfig("tier %d has an invalid range [%d, %d]", i, tier.MinCount, tier.MaxCount)
		}
		if tier.Percent.IsNegative() || tier.Bonus.IsNegative() {
			return invalidConfig("tier %d cannot pay a negative percent or bonus", i)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if tier.MinCount <= prev.MaxCount {
			return invalidConfig("tier [%d, %d] overlaps tier [%d, %d]", tier.MinCount, tier.MaxCount, prev.MinCount, prev.MaxCount)
		}
		if tier.Percent.LessThan(prev.Percent) || tier.Bonus.LessThan(prev.Bonus) {
			return invalidConfig("tier [%d, %d] pays less than the tier below it", tier.MinCount, tier.MaxCount)
		}
	}
	return nil
}

// Gaps returns the count ranges not covered between consecutive tiers
func (c RewardConfig) Gaps() [][2]int {
	var gaps [][2]int
	tiers := c.SortedTiers()
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinCount > tiers[i-1].MaxCount+1 {
			gaps = append(gaps, [2]int{tiers[i-1].MaxCount + 1, tiers[i].MinCount - 1})
		}
	}
	return gaps
}

func invalidConfig(format string, args ...any) error {
	return shared.NewDomainError(shared.CodeInvalidInput, "Invalid reward config: "+fmt.Sprintf(format, args...))
}

// Defaults holds the role-wide configs used when no explicit config exists
type Defaults struct {
	SDR    RewardConfig
	Closer RewardConfig
}

// DefaultSDRPercent and DefaultCloserPercent are the shipped commission rates
var (
	DefaultSDRPercent    = decimal.NewFromInt(1)
	DefaultCloserPercent = decimal.NewFromInt(5)
)

// DefaultRewardConfigs returns SDR 1% and Closer 5% percentual configs
func DefaultRewardConfigs() Defaults {
	return NewDefaults(DefaultSDRPercent, DefaultCloserPercent)
}

// NewDefaults returns percentual role defaults with the given rates
func NewDefaults(sdrPercent, closerPercent decimal.Decimal) Defaults {
	return Defaults{
		SDR:    NewPercentualConfig(sales.RoleSDR, sdrPercent),
		Closer: NewPercentualConfig(sales.RoleCloser, closerPercent),
	}
}

// For returns the default config for a role
func (d Defaults) For(role sales.Role) RewardConfig {
	if role == sales.RoleCloser {
		return d.Closer
	}
	return d.SDR
}
