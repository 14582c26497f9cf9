package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	reportapp "github.com/salesops/backend/internal/application/report"
	"github.com/salesops/backend/internal/domain/report"
)

// ReportService builds BPO reports
type ReportService interface {
	Report(ctx context.Context, q reportapp.BPOQuery) (*reportapp.BPOReport, error)
	BusinessLines(ctx context.Context) ([]string, error)
	Warm(ctx context.Context) (int, error)
}

// BPOReportQuery selects a business line report
type BPOReportQuery struct {
	BusinessLine string `form:"business_line" binding:"required,max=100"`
	Granularity  string `form:"granularity"`
	From         string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To           string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// WarmResult reports a manual cache refresh
type WarmResult struct {
	Reports int `json:"reports"`
}

// ReportHandler serves BPO profitability reports
type ReportHandler struct {
	BaseHandler
	service ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// BPOReport godoc
// @Summary  Per-period revenue, cost and margin of a business line
// @Param    business_line  query  string  true   "business line"
// @Param    granularity    query  string  false  "daily|weekly|monthly|yearly, default monthly"
// @Param    from           query  string  false  "YYYY-MM-DD, inclusive"
// @Param    to             query  string  false  "YYYY-MM-DD, inclusive"
// @Router   /reports/bpo [get]
func (h *ReportHandler) BPOReport(c *gin.Context) {
	var q BPOReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	granularity := report.GranularityMonthly
	if q.Granularity != "" {
		parsed, err := report.ParseGranularity(q.Granularity)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		granularity = parsed
	}
	from, err := optionalDate("from", q.From)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := optionalDate("to", q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.service.Report(c.Request.Context(), reportapp.BPOQuery{
		BusinessLine: q.BusinessLine,
		Granularity:  granularity,
		From:         from,
		To:           to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BusinessLines godoc
// @Summary  List the business lines present in the ledger
// @Router   /reports/business-lines [get]
func (h *ReportHandler) BusinessLines(c *gin.Context) {
	lines, err := h.service.BusinessLines(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	h.Success(c, lines)
}

// Warm godoc
// @Summary  Recompute and cache the monthly report of every business line
// @Router   /reports/warm [post]
func (h *ReportHandler) Warm(c *gin.Context) {
	n, err := h.service.Warm(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, WarmResult{Reports: n})
}
