package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents a request to register a product
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	BusinessLine string           `json:"business_line" binding:"required,min=1,max=100"`
	Price        *decimal.Decimal `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
}

// ProductResponse represents a product
type ProductResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	BusinessLine string           `json:"business_line"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Cost         decimal.Decimal  `json:"cost"`
}

// ProductService manages the product directory used to resolve approvals
type ProductService struct {
	repo   catalog.ProductDirectory
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductDirectory, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Create registers a product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.BusinessLine, req.Price, req.Cost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.logger.Info("product registered",
		zap.String("product_id", product.ID.String()),
		zap.String("business_line", product.BusinessLine),
	)
	resp := toProductResponse(product)
	return &resp, nil
}

// List returns all products
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out, nil
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		BusinessLine: p.BusinessLine,
		Price:        p.Price,
		Cost:         p.Cost,
	}
}
