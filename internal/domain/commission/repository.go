package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/sales"
	"github.com/salesops/backend/internal/domain/shared"
)

// RewardConfigRepository persists reward configurations
type RewardConfigRepository interface {
	// FindForUser returns the config of a performer, or shared.ErrNotFound
	FindForUser(ctx context.Context, userID uuid.UUID, role sales.Role) (*RewardConfig, error)
	// FindRoleDefault returns the role-wide config, or shared.ErrNotFound
	FindRoleDefault(ctx context.Context, role sales.Role) (*RewardConfig, error)
	// Save upserts a config keyed by (user, role)
	Save(ctx context.Context, cfg *RewardConfig) error
}

// RecordRepository reads commission records. Records are only ever written
// as part of an approval commit.
type RecordRepository interface {
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]*Record, error)
	ListByUser(ctx context.Context, userID uuid.UUID, period Period) ([]*Record, error)
	// Leaderboard returns per-user record counts for a role in the period
	Leaderboard(ctx context.Context, role sales.Role, period Period) ([]PerformerCount, error)
}

// ResolveConfig picks the config for a performer: their own config, else the
// stored role default, else the built-in defaults.
func ResolveConfig(ctx context.Context, repo RewardConfigRepository, defaults Defaults, userID uuid.UUID, role sales.Role) (RewardConfig, error) {
	cfg, err := repo.FindForUser(ctx, userID, role)
	if err == nil {
		return *cfg, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return RewardConfig{}, err
	}

	cfg, err = repo.FindRoleDefault(ctx, role)
	if err == nil {
		return *cfg, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return RewardConfig{}, err
	}

	return defaults.For(role), nil
}
