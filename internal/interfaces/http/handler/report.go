package handler

import (
	"time"

	appreport "github.com/fieldsale/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles traceability and reporting HTTP requests
type ReportHandler struct {
	BaseHandler
	traceabilityService *appreport.TraceabilityService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(traceabilityService *appreport.TraceabilityService) *ReportHandler {
	return &ReportHandler{traceabilityService: traceabilityService}
}

// dateRangeRequest carries an inclusive-from, exclusive-to date range
type dateRangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func (r *dateRangeRequest) parse() (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", r.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse("2006-01-02", r.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// The range is inclusive of the last day
	return from, to.AddDate(0, 0, 1), nil
}

// BatchTraceability handles GET /batches/:id/traceability
func (h *ReportHandler) BatchTraceability(c *gin.Context) {
	batchID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	trace, err := h.traceabilityService.GetBatchTraceability(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trace)
}

// ReturnsByReason handles GET /reports/returns-by-reason
func (h *ReportHandler) ReturnsByReason(c *gin.Context) {
	var req dateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := req.parse()
	if err != nil {
		h.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	rows, err := h.traceabilityService.GetReturnsByReason(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// BatchAnalysis handles GET /reports/batch-analysis
func (h *ReportHandler) BatchAnalysis(c *gin.Context) {
	rows, err := h.traceabilityService.GetBatchAnalysis(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// DailyTrend handles GET /reports/daily-trend
func (h *ReportHandler) DailyTrend(c *gin.Context) {
	var req dateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := req.parse()
	if err != nil {
		h.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	rows, err := h.traceabilityService.GetDailyTrend(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}
