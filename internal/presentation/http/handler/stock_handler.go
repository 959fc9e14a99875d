package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
)

// StockHandler handles stock movements and purchases
type StockHandler struct {
	stock           *service.StockLedger
	purchaseService *service.PurchaseService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stock *service.StockLedger, purchaseService *service.PurchaseService) *StockHandler {
	return &StockHandler{stock: stock, purchaseService: purchaseService}
}

// StockIn handles a multi-line stock-in
func (h *StockHandler) StockIn(c *gin.Context) {
	var req request.StockInRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	input := &service.StockInInput{
		SupplierID:            req.SupplierID,
		SupplierInvoiceNumber: req.SupplierInvoiceNumber,
		PartyName:             req.PartyName,
		PartyState:            req.PartyState,
		Date:                  date,
		PaymentMode:           req.PaymentMode,
		PaidAmount:            req.PaidAmount,
		Items:                 make([]service.StockInLine, 0, len(req.Items)),
		BillDiscount:          req.BillDiscount,
		BillDiscountPercent:   req.BillDiscountPercent,
		RoundOff:              req.RoundOff,
		LedgerEntries:         toManualEntries(req.LedgerEntries),
		Notes:                 req.Notes,
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, service.StockInLine{
			LineInput:     toLineInput(line.LineRequest),
			SalesRate:     line.SalesRate,
			PurchasePrice: line.PurchasePrice,
		})
	}

	purchase, err := h.purchaseService.StockIn(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Stock added successfully"
	if purchase.VoucherError != nil {
		message = "Stock added; voucher posting failed: " + *purchase.VoucherError
	}
	response.Created(c, message, purchase)
}

// StockOut handles a standalone stock-out
func (h *StockHandler) StockOut(c *gin.Context) {
	var req request.StockOutRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.stock.StockOut(c.Request.Context(), &service.StockOutInput{
		ItemID:          req.ItemID,
		Quantity:        req.Quantity,
		Rate:            req.Rate,
		ReferenceType:   enum.ReferenceType(req.ReferenceType),
		TransactionDate: date,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock removed successfully", txn)
}

// ListTransactions handles listing the stock log
func (h *StockHandler) ListTransactions(c *gin.Context) {
	var filter request.StockFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	itemID, err := parseOptionalID("item_id", filter.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := optionalRange(filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.stock.ListTransactions(c.Request.Context(), &repository.StockFilterParams{
		Pagination:    pageParams(filter.Page, filter.PerPage),
		ItemID:        itemID,
		Kind:          enum.TransactionKind(filter.Kind),
		ReferenceType: enum.ReferenceType(filter.ReferenceType),
		From:          from,
		To:            to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock transactions retrieved successfully", result)
}

// GetTransaction handles getting one stock movement
func (h *StockHandler) GetTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	txn, err := h.stock.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock transaction retrieved successfully", txn)
}

// UpdateTransaction handles editing a standalone stock movement
func (h *StockHandler) UpdateTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateStockTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.stock.UpdateMovement(c.Request.Context(), id, &service.UpdateMovementInput{
		Kind:            enum.TransactionKind(req.Kind),
		Quantity:        req.Quantity,
		Rate:            req.Rate,
		TransactionDate: date,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock transaction updated successfully", txn)
}

// DeleteTransaction handles reversing a standalone stock movement
func (h *StockHandler) DeleteTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.stock.DeleteMovement(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Balance handles the stock balance report
func (h *StockHandler) Balance(c *gin.Context) {
	report, err := h.stock.BalanceReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock balance retrieved successfully", report)
}

// ListPurchases handles listing purchases
func (h *StockHandler) ListPurchases(c *gin.Context) {
	var filter request.PurchaseFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	supplierID, err := parseOptionalID("supplier_id", filter.SupplierID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := optionalRange(filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), &repository.PurchaseFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		SupplierID: supplierID,
		From:       from,
		To:         to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved successfully", result)
}

// GetPurchase handles getting a purchase with its lines
func (h *StockHandler) GetPurchase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// DeletePurchase handles reversing a purchase
func (h *StockHandler) DeletePurchase(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func toLineInput(line request.LineRequest) service.LineInput {
	return service.LineInput{
		ItemID:          line.ItemID,
		Quantity:        line.Quantity,
		FreeQuantity:    line.FreeQuantity,
		Rate:            line.Rate,
		DiscountPercent: line.DiscountPercent,
		GSTPercent:      line.GSTPercent,
	}
}

func toManualEntries(entries []request.LedgerEntryRequest) []service.ManualEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]service.ManualEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, service.ManualEntry{
			LedgerID:  e.LedgerID,
			Debit:     e.Debit,
			Credit:    e.Credit,
			Narration: e.Narration,
		})
	}
	return out
}
