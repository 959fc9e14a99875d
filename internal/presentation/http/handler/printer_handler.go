package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printing
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// PrintSale prints the receipt of a sales transaction
func (h *PrinterHandler) PrintSale(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintSale(c.Request.Context(), id)
	respondReceipt(c, receipt, err)
}

// PrintPurchase prints the receipt of a stock-in bill
func (h *PrinterHandler) PrintPurchase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintPurchase(c.Request.Context(), id)
	respondReceipt(c, receipt, err)
}

// respondReceipt returns the composed receipt even when the printer itself failed
func respondReceipt(c *gin.Context, receipt *entity.Receipt, err error) {
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
