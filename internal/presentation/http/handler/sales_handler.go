package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
)

// SalesHandler handles sales-related HTTP requests
type SalesHandler struct {
	salesService *service.SalesService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(salesService *service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// List handles listing sales
func (h *SalesHandler) List(c *gin.Context) {
	var filter request.SalesFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	customerID, err := parseOptionalID("customer_id", filter.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := optionalRange(filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	params := &repository.SalesFilterParams{
		Pagination:  pageParams(filter.Page, filter.PerPage),
		Search:      filter.Search,
		InvoiceType: enum.InvoiceType(filter.InvoiceType),
		CustomerID:  customerID,
		From:        from,
		To:          to,
	}
	if status, ok := enum.ParsePaymentStatus(filter.PaymentStatus); ok {
		params.PaymentStatus = &status
	}

	result, err := h.salesService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Create handles creating a sale
func (h *SalesHandler) Create(c *gin.Context) {
	input, ok := bindSale(c)
	if !ok {
		return
	}

	sale, err := h.salesService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Preview handles computing a bill without saving it
func (h *SalesHandler) Preview(c *gin.Context) {
	input, ok := bindSale(c)
	if !ok {
		return
	}

	comp, err := h.salesService.PreviewSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale preview computed", gin.H{
		"status":         enum.PostingStatusDraft,
		"inter_state":    comp.InterState,
		"payment_status": comp.PaymentStatus,
		"items":          comp.Lines,
		"totals":         comp.Totals,
	})
}

// NextNumber handles previewing the next invoice number for a document type
func (h *SalesHandler) NextNumber(c *gin.Context) {
	invoiceType := enum.InvoiceType(c.DefaultQuery("type", string(enum.InvoiceSale)))

	number, err := h.salesService.NextNumber(c.Request.Context(), invoiceType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next invoice number", gin.H{"invoice_type": invoiceType, "invoice_number": number})
}

// Get handles getting a sale with its lines
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sale, err := h.salesService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Update handles editing a sale
func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	input, ok := bindSale(c)
	if !ok {
		return
	}

	sale, err := h.salesService.UpdateSale(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Delete handles reversing and deleting a sale
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.salesService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RecordPayment handles recording a receipt against a sale
func (h *SalesHandler) RecordPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.salesService.RecordPayment(c.Request.Context(), id, &service.PaymentInput{
		Amount:      req.Amount,
		Date:        date,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", sale)
}

func bindSale(c *gin.Context) (*service.SaleInput, bool) {
	var req request.SaleRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	date, err := parseDate("invoice_date", req.InvoiceDate)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	input := &service.SaleInput{
		InvoiceType:         enum.InvoiceType(req.InvoiceType),
		InvoiceNumber:       req.InvoiceNumber,
		InvoiceDate:         date,
		CustomerID:          req.CustomerID,
		PartyName:           req.PartyName,
		PartyPhone:          req.PartyPhone,
		PartyState:          req.PartyState,
		PaymentMode:         req.PaymentMode,
		PaidAmount:          req.PaidAmount,
		PreviousBalance:     req.PreviousBalance,
		Items:               make([]service.LineInput, 0, len(req.Items)),
		BillDiscount:        req.BillDiscount,
		BillDiscountPercent: req.BillDiscountPercent,
		RoundOff:            req.RoundOff,
		Notes:               req.Notes,
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, toLineInput(line))
	}
	return input, true
}
