package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	approvalapp "github.com/salesops/backend/internal/application/approval"
	ledgerapp "github.com/salesops/backend/internal/application/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerHandler_RecordMovement(t *testing.T) {
	t.Run("books an outflow", func(t *testing.T) {
		service := new(MockLedgerService)
		h := NewLedgerHandler(service)
		service.On("RecordMovement", mock.Anything, mock.MatchedBy(func(req ledgerapp.RecordMovementRequest) bool {
			return req.BusinessLine == "consulting" && req.Direction == "out" && req.Amount.Equal(decimal.NewFromInt(300))
		})).Return(&approvalapp.MovementResponse{
			ID:           uuid.New(),
			BusinessLine: "consulting",
			Direction:    "out",
			Amount:       decimal.NewFromInt(300),
			Status:       "completed",
			OccurredOn:   "2024-01-15",
		}, nil)

		body := map[string]any{
			"business_line": "consulting",
			"direction":     "out",
			"amount":        "300",
			"category":      "payroll",
			"occurred_on":   "2024-01-15",
		}
		w, resp := serve(t, http.MethodPost, "/ledger/movements", "/ledger/movements", body, h.RecordMovement)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got approvalapp.MovementResponse
		decodeData(t, resp, &got)
		assert.Equal(t, "out", got.Direction)
		service.AssertExpectations(t)
	})

	t.Run("invalid direction", func(t *testing.T) {
		service := new(MockLedgerService)
		h := NewLedgerHandler(service)

		body := map[string]any{"business_line": "consulting", "direction": "sideways", "amount": "1", "category": "misc"}
		w, resp := serve(t, http.MethodPost, "/ledger/movements", "/ledger/movements", body, h.RecordMovement)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "direction", resp.Error.Details[0].Field)
		service.AssertNotCalled(t, "RecordMovement", mock.Anything, mock.Anything)
	})
}

func TestLedgerHandler_ReverseMovement(t *testing.T) {
	id := uuid.New()

	t.Run("appends the compensating entry", func(t *testing.T) {
		service := new(MockLedgerService)
		h := NewLedgerHandler(service)
		service.On("ReverseMovement", mock.Anything, id).
			Return(&approvalapp.MovementResponse{ID: uuid.New(), Direction: "out", Status: "completed"}, nil)

		w, _ := serve(t, http.MethodPost, "/ledger/movements/:id/reverse", "/ledger/movements/"+id.String()+"/reverse", nil, h.ReverseMovement)

		assert.Equal(t, http.StatusCreated, w.Code)
		service.AssertExpectations(t)
	})

	t.Run("unknown movement", func(t *testing.T) {
		service := new(MockLedgerService)
		h := NewLedgerHandler(service)
		service.On("ReverseMovement", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w, _ := serve(t, http.MethodPost, "/ledger/movements/:id/reverse", "/ledger/movements/"+id.String()+"/reverse", nil, h.ReverseMovement)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("pending movement cannot be reversed", func(t *testing.T) {
		service := new(MockLedgerService)
		h := NewLedgerHandler(service)
		service.On("ReverseMovement", mock.Anything, id).Return(nil, shared.ErrInvalidState)

		w, resp := serve(t, http.MethodPost, "/ledger/movements/:id/reverse", "/ledger/movements/"+id.String()+"/reverse", nil, h.ReverseMovement)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, shared.CodeInvalidState, resp.Error.Code)
	})
}
