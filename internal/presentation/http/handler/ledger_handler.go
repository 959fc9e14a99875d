package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-coop-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles ledger and voucher HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles listing ledgers
func (h *LedgerHandler) List(c *gin.Context) {
	var filter request.LedgerFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	entityID, err := parseOptionalID("entity_id", filter.EntityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.ledgerService.ListLedgers(c.Request.Context(), &repository.LedgerFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Type:       enum.LedgerType(filter.Type),
		EntityType: enum.PartyType(filter.EntityType),
		EntityID:   entityID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Ledgers retrieved successfully", result)
}

// Create handles creating a custom ledger
func (h *LedgerHandler) Create(c *gin.Context) {
	var req request.CreateLedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), &service.CreateLedgerInput{
		Name:           req.Name,
		Type:           enum.LedgerType(req.Type),
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ledger created successfully", ledger)
}

// Get handles getting a ledger
func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", ledger)
}

// ListVouchers handles listing vouchers
func (h *LedgerHandler) ListVouchers(c *gin.Context) {
	var filter request.VoucherFilterRequest
	if !bindQuery(c, &filter) {
		return
	}
	referenceID, err := parseOptionalID("reference_id", filter.ReferenceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	ledgerID, err := parseOptionalID("ledger_id", filter.LedgerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := optionalRange(filter.From, filter.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.ledgerService.ListVouchers(c.Request.Context(), &repository.VoucherFilterParams{
		Pagination:    pageParams(filter.Page, filter.PerPage),
		Type:          enum.VoucherType(filter.Type),
		ReferenceType: filter.ReferenceType,
		ReferenceID:   referenceID,
		LedgerID:      ledgerID,
		From:          from,
		To:            to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vouchers retrieved successfully", result)
}

// GetVoucher handles getting a voucher with its entries
func (h *LedgerHandler) GetVoucher(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	voucher, err := h.ledgerService.GetVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

// PostJournal handles posting a manual journal voucher
func (h *LedgerHandler) PostJournal(c *gin.Context) {
	var req request.JournalRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	voucher, err := h.ledgerService.PostJournal(c.Request.Context(), &service.JournalInput{
		Date:      date,
		Narration: req.Narration,
		Entries:   toManualEntries(req.Entries),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Journal voucher posted successfully", voucher)
}

// DeleteVoucher handles reversing a manual voucher
func (h *LedgerHandler) DeleteVoucher(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteVoucher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
