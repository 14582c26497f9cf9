package models

import (
	"github.com/salesops/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name         string           `gorm:"type:varchar(200);not null"`
	BusinessLine string           `gorm:"type:varchar(100);not null;index"`
	Price        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Cost         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:   m.entity(),
		Name:         m.Name,
		BusinessLine: m.BusinessLine,
		Price:        m.Price,
		Cost:         m.Cost,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.BaseModel = baseModelOf(p.BaseEntity)
	m.Name = p.Name
	m.BusinessLine = p.BusinessLine
	m.Price = p.Price
	m.Cost = p.Cost
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
