package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductDirectory resolves products referenced by sales
type ProductDirectory interface {
	// FindByID returns shared.ErrNotFound for unknown ids
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
	// List returns all products ordered by business line then name
	List(ctx context.Context) ([]*Product, error)
}
