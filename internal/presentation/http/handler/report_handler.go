package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
)

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// StockBalance handles the stock valuation report
func (h *ReportHandler) StockBalance(c *gin.Context) {
	report, err := h.reportService.StockBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock balance retrieved successfully", report)
}

// TrialBalance handles the trial balance report
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	report, err := h.reportService.TrialBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Trial balance retrieved successfully", report)
}

// SalesSummary handles the sales summary for a period, the current month by default
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var req request.PeriodRequest
	if !bindQuery(c, &req) {
		return
	}
	from, to, err := periodRange(req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.SalesSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", report)
}

// StockMovements handles the stock movement summary for a period, the current month by default
func (h *ReportHandler) StockMovements(c *gin.Context) {
	var req request.PeriodRequest
	if !bindQuery(c, &req) {
		return
	}
	from, to, err := periodRange(req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reportService.StockMovementSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock movement summary retrieved successfully", report)
}
