package catalog

import (
	"strings"

	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an offer sold under one business line ("motor").
// Approval only reads products; it never mutates them.
type Product struct {
	shared.BaseEntity
	Name         string
	BusinessLine string
	Price        *decimal.Decimal // nil when the product has no list price
	Cost         decimal.Decimal
}

// NewProduct creates a new product
func NewProduct(name, businessLine string, price *decimal.Decimal, cost decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	businessLine = NormalizeBusinessLine(businessLine)
	if businessLine == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Business line cannot be empty")
	}
	if price != nil && price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Price cannot be negative")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Cost cannot be negative")
	}

	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		BusinessLine: businessLine,
		Price:        price,
		Cost:         cost,
	}, nil
}

// HasPrice reports whether the product carries a usable list price
func (p *Product) HasPrice() bool {
	return p.Price != nil && p.Price.IsPositive()
}

// RevenueFor returns the revenue an approved sale books for this product:
// the list price when present, otherwise the amount recorded on the sale.
func (p *Product) RevenueFor(saleAmount decimal.Decimal) decimal.Decimal {
	if p.HasPrice() {
		return *p.Price
	}
	return saleAmount
}

// NormalizeBusinessLine trims and lower-cases a business line name
func NormalizeBusinessLine(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
