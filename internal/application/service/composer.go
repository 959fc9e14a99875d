package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceSide picks which item price fills a line without an explicit rate
type PriceSide int

const (
	SalePrice PriceSide = iota
	PurchasePrice
)

// LineInput is one requested line before pricing
type LineInput struct {
	ItemID          uuid.UUID
	Quantity        decimal.Decimal
	FreeQuantity    decimal.Decimal
	Rate            *decimal.Decimal
	DiscountPercent decimal.Decimal
	GSTPercent      *decimal.Decimal
}

// BillInput is a sale or purchase request as the composer sees it
type BillInput struct {
	PartyState          string
	Lines               []LineInput
	BillDiscount        *decimal.Decimal
	BillDiscountPercent *decimal.Decimal
	RoundOff            *decimal.Decimal
	PreviousBalance     decimal.Decimal
	PaidAmount          decimal.Decimal
	PriceSide           PriceSide
	// CheckStock rejects the bill when any item lacks the quantity it would remove
	CheckStock bool
}

// ComposedLine is a priced line together with the item it refers to
type ComposedLine struct {
	entity.LineAmounts
	Item *entity.Item
}

// Composition is the fully computed bill. Nothing has been persisted.
type Composition struct {
	Lines         []ComposedLine
	Totals        entity.BillTotals
	PaymentStatus enum.PaymentStatus
	InterState    bool
}

// Composer prices sales and purchases and computes their bill totals
type Composer struct {
	itemRepo  repository.ItemRepository
	homeState string
}

// NewComposer creates a composer for a business registered in homeState
func NewComposer(itemRepo repository.ItemRepository, homeState string) *Composer {
	return &Composer{
		itemRepo:  itemRepo,
		homeState: homeState,
	}
}

// HomeState returns the state used for the intra/inter-state tax rule
func (c *Composer) HomeState() string {
	return c.homeState
}

// IsInterState reports whether tax for partyState is charged as IGST. A blank party state is
// treated as local.
func IsInterState(partyState, homeState string) bool {
	partyState = strings.TrimSpace(partyState)
	if partyState == "" {
		return false
	}
	return !strings.EqualFold(partyState, strings.TrimSpace(homeState))
}

// Compose validates every line against the item master, checks stock for all lines when asked,
// and only then prices the bill. No line is priced while another is invalid.
func (c *Composer) Compose(ctx context.Context, input *BillInput) (*Composition, error) {
	if fields := validateBill(input); len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	ids := make([]uuid.UUID, 0, len(input.Lines))
	for _, line := range input.Lines {
		ids = append(ids, line.ItemID)
	}
	items, err := c.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for i, line := range input.Lines {
		if _, ok := byID[line.ItemID]; !ok {
			notFound := apperror.NewNotFoundError("Item " + line.ItemID.String())
			notFound.Errors = []apperror.FieldError{{
				Field:   fmt.Sprintf("items[%d].item_id", i),
				Message: "does not exist",
			}}
			return nil, notFound
		}
	}

	if input.CheckStock {
		if err := checkAvailability(input.Lines, byID); err != nil {
			return nil, err
		}
	}

	return Calculate(input, byID, IsInterState(input.PartyState, c.homeState)), nil
}

// Calculate prices the bill. items must hold every line's item.
func Calculate(input *BillInput, items map[uuid.UUID]*entity.Item, interState bool) *Composition {
	comp := &Composition{
		Lines:      make([]ComposedLine, 0, len(input.Lines)),
		InterState: interState,
	}
	totals := &comp.Totals

	for _, in := range input.Lines {
		item := items[in.ItemID]
		line := priceLine(in, item, input.PriceSide, interState)
		comp.Lines = append(comp.Lines, ComposedLine{LineAmounts: line, Item: item})

		totals.GrossAmount = totals.GrossAmount.Add(line.Amount)
		totals.DiscountAmount = totals.DiscountAmount.Add(line.DiscountAmount)
		totals.TaxableAmount = totals.TaxableAmount.Add(line.TaxableAmount)
		totals.TotalCGST = totals.TotalCGST.Add(line.CGST)
		totals.TotalSGST = totals.TotalSGST.Add(line.SGST)
		totals.TotalIGST = totals.TotalIGST.Add(line.IGST)
	}
	totals.TotalGST = totals.TotalCGST.Add(totals.TotalSGST).Add(totals.TotalIGST)

	switch {
	case input.BillDiscountPercent != nil:
		totals.BillDiscountPercent = *input.BillDiscountPercent
		totals.BillDiscount = percentOf(totals.TaxableAmount, *input.BillDiscountPercent)
	case input.BillDiscount != nil:
		totals.BillDiscount = input.BillDiscount.Round(2)
	}

	totals.NetAmount = totals.TaxableAmount.Sub(totals.BillDiscount).Add(totals.TotalGST)
	if input.RoundOff != nil {
		totals.RoundOff = input.RoundOff.Round(2)
	} else {
		totals.RoundOff = totals.NetAmount.Round(0).Sub(totals.NetAmount)
	}
	totals.GrandTotal = totals.NetAmount.Add(totals.RoundOff)
	totals.PreviousBalance = input.PreviousBalance.Round(2)
	totals.TotalDue = totals.GrandTotal.Add(totals.PreviousBalance)
	totals.PaidAmount = input.PaidAmount.Round(2)
	totals.Balance = totals.TotalDue.Sub(totals.PaidAmount)
	comp.PaymentStatus = enum.DerivePaymentStatus(totals.PaidAmount, totals.TotalDue)

	return comp
}

func priceLine(in LineInput, item *entity.Item, side PriceSide, interState bool) entity.LineAmounts {
	rate := item.SalePrice
	if side == PurchasePrice {
		rate = item.PurchasePrice
	}
	if in.Rate != nil {
		rate = *in.Rate
	}
	gst := item.TaxRate
	if in.GSTPercent != nil {
		gst = *in.GSTPercent
	}

	line := entity.LineAmounts{
		ItemID:          item.ID,
		ItemName:        item.Name,
		Quantity:        in.Quantity,
		FreeQuantity:    in.FreeQuantity,
		Rate:            rate,
		DiscountPercent: in.DiscountPercent,
		GSTPercent:      gst,
	}
	line.Amount = in.Quantity.Mul(rate).Round(2)
	line.DiscountAmount = percentOf(line.Amount, in.DiscountPercent)
	line.TaxableAmount = line.Amount.Sub(line.DiscountAmount)

	if interState {
		line.IGST = percentOf(line.TaxableAmount, gst)
	} else {
		half := gst.Div(decimal.NewFromInt(2))
		line.CGST = percentOf(line.TaxableAmount, half)
		line.SGST = percentOf(line.TaxableAmount, half)
	}
	line.LineTotal = line.TaxableAmount.Add(line.CGST).Add(line.SGST).Add(line.IGST)
	return line
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred).Round(2)
}

// checkAvailability sums what every line removes per item before comparing, so two lines of the
// same item cannot each pass against the full balance
func checkAvailability(lines []LineInput, items map[uuid.UUID]*entity.Item) error {
	needed := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, seen := needed[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		needed[line.ItemID] = needed[line.ItemID].Add(line.Quantity).Add(line.FreeQuantity)
	}

	for _, id := range order {
		item := items[id]
		if needed[id].GreaterThan(item.CurrentBalance) {
			return apperror.NewInsufficientStockError(item.Name, item.CurrentBalance, needed[id])
		}
	}
	return nil
}

func validateBill(input *BillInput) []apperror.FieldError {
	var fields []apperror.FieldError
	add := func(field, msg string) {
		fields = append(fields, apperror.FieldError{Field: field, Message: msg})
	}

	if len(input.Lines) == 0 {
		add("items", "at least one line item is required")
	}
	for i, line := range input.Lines {
		prefix := fmt.Sprintf("items[%d].", i)
		if line.ItemID == uuid.Nil {
			add(prefix+"item_id", "is required")
		}
		if !line.Quantity.IsPositive() {
			add(prefix+"quantity", "must be greater than zero")
		}
		if line.FreeQuantity.IsNegative() {
			add(prefix+"free_quantity", "must not be negative")
		}
		if line.Rate != nil && line.Rate.IsNegative() {
			add(prefix+"rate", "must not be negative")
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(hundred) {
			add(prefix+"discount_percent", "must be between 0 and 100")
		}
		if line.GSTPercent != nil && (line.GSTPercent.IsNegative() || line.GSTPercent.GreaterThan(hundred)) {
			add(prefix+"gst_percent", "must be between 0 and 100")
		}
	}
	if input.BillDiscountPercent != nil && (input.BillDiscountPercent.IsNegative() || input.BillDiscountPercent.GreaterThan(hundred)) {
		add("bill_discount_percent", "must be between 0 and 100")
	}
	if input.BillDiscount != nil && input.BillDiscount.IsNegative() {
		add("bill_discount", "must not be negative")
	}
	if input.PaidAmount.IsNegative() {
		add("paid_amount", "must not be negative")
	}
	return fields
}
