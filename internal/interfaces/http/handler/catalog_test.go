package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/salesops/backend/internal/application/catalog"
	"github.com/salesops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := new(MockProductService)
		h := NewProductHandler(service)
		price := decimal.NewFromInt(1200)
		service.On("Create", mock.Anything, mock.MatchedBy(func(req catalogapp.CreateProductRequest) bool {
			return req.Name == "Audit" && req.BusinessLine == "consulting" && req.Price != nil && req.Price.Equal(price)
		})).Return(&catalogapp.ProductResponse{ID: uuid.New(), Name: "Audit", BusinessLine: "consulting", Price: &price}, nil)

		body := map[string]any{"name": "Audit", "business_line": "consulting", "price": "1200", "cost": "200"}
		w, resp := serve(t, http.MethodPost, "/products", "/products", body, h.Create)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got catalogapp.ProductResponse
		decodeData(t, resp, &got)
		assert.Equal(t, "consulting", got.BusinessLine)
		service.AssertExpectations(t)
	})

	t.Run("missing business line", func(t *testing.T) {
		service := new(MockProductService)
		h := NewProductHandler(service)

		w, resp := serve(t, http.MethodPost, "/products", "/products", map[string]any{"name": "Audit"}, h.Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_List(t *testing.T) {
	service := new(MockProductService)
	h := NewProductHandler(service)
	service.On("List", mock.Anything).Return(nil, nil)

	w, _ := serve(t, http.MethodGet, "/products", "/products", nil, h.List)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}
