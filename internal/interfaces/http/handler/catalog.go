package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesops/backend/internal/application/catalog"
)

// ProductService manages the product directory
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	List(ctx context.Context) ([]catalogapp.ProductResponse, error)
}

// ProductHandler serves the product directory used to resolve approvals
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create godoc
// @Summary  Register a product under a business line
// @Router   /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// List godoc
// @Summary  List products
// @Router   /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if products == nil {
		products = []catalogapp.ProductResponse{}
	}
	h.Success(c, products)
}
