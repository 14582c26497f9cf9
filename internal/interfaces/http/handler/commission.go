package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	commissionapp "github.com/salesops/backend/internal/application/commission"
	"github.com/salesops/backend/internal/domain/commission"
	"github.com/salesops/backend/internal/domain/shared"
)

// CommissionService manages reward configs and statements
type CommissionService interface {
	SetRewardConfig(ctx context.Context, req commissionapp.RewardConfigRequest) (*commissionapp.RewardConfigResponse, error)
	Statement(ctx context.Context, userID uuid.UUID, from, to time.Time) (*commissionapp.StatementResponse, error)
	Preview(ctx context.Context, req commissionapp.PreviewRequest) (*commission.Breakdown, error)
}

// StatementQuery selects a performer's statement. Dates are inclusive;
// the current calendar month is used when both are omitted.
type StatementQuery struct {
	UserID string `form:"user_id" binding:"required,uuid"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// CommissionHandler serves commission endpoints
type CommissionHandler struct {
	BaseHandler
	service CommissionService
	now     func() time.Time
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(service CommissionService) *CommissionHandler {
	return &CommissionHandler{service: service, now: time.Now}
}

// SetRewardConfig godoc
// @Summary  Create or replace a user's reward config or a role default
// @Router   /commissions/configs [put]
func (h *CommissionHandler) SetRewardConfig(c *gin.Context) {
	var req commissionapp.RewardConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cfg, err := h.service.SetRewardConfig(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Statement godoc
// @Summary  List a performer's commissions over a period
// @Param    user_id  query  string  true   "performer"
// @Param    from     query  string  false  "YYYY-MM-DD, inclusive"
// @Param    to       query  string  false  "YYYY-MM-DD, inclusive"
// @Router   /commissions/statement [get]
func (h *CommissionHandler) Statement(c *gin.Context) {
	var q StatementQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	from, to, err := h.statementPeriod(q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	st, err := h.service.Statement(c.Request.Context(), uuid.MustParse(q.UserID), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// statementPeriod turns inclusive dates into the half-open [from, to) range
func (h *CommissionHandler) statementPeriod(q StatementQuery) (time.Time, time.Time, error) {
	start := monthStart(h.now())
	from, to := start, start.AddDate(0, 1, 0)

	fromDate, err := optionalDate("from", q.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := optionalDate("to", q.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if fromDate != nil {
		from = *fromDate
		if toDate == nil {
			to = monthStart(from).AddDate(0, 1, 0)
		}
	}
	if toDate != nil {
		to = toDate.AddDate(0, 0, 1)
		if fromDate == nil {
			from = monthStart(*toDate)
		}
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, "From date must not be after to date")
	}
	return from, to, nil
}

// Preview godoc
// @Summary  Compute what a reward config would pay for hypothetical facts
// @Router   /commissions/preview [post]
func (h *CommissionHandler) Preview(c *gin.Context) {
	var req commissionapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	breakdown, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}
