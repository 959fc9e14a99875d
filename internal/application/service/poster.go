package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Standard ledgers created on first use
const (
	LedgerCash             = "Cash Account"
	LedgerDiscountAllowed  = "Discount Allowed"
	LedgerDiscountReceived = "Discount Received"
	LedgerRoundOff         = "Round Off"
	LedgerCGSTPayable      = "CGST Payable"
	LedgerSGSTPayable      = "SGST Payable"
	LedgerIGSTPayable      = "IGST Payable"
	LedgerInputCGST        = "Input CGST"
	LedgerInputSGST        = "Input SGST"
	LedgerInputIGST        = "Input IGST"
)

// StandardLedgers are seeded at startup so the chart of accounts is never empty
var StandardLedgers = []LedgerSpec{
	SystemLedger(LedgerCash, enum.LedgerAsset),
	SystemLedger(LedgerDiscountAllowed, enum.LedgerExpense),
	SystemLedger(LedgerDiscountReceived, enum.LedgerIncome),
	SystemLedger(LedgerRoundOff, enum.LedgerExpense),
	SystemLedger(LedgerCGSTPayable, enum.LedgerLiability),
	SystemLedger(LedgerSGSTPayable, enum.LedgerLiability),
	SystemLedger(LedgerIGSTPayable, enum.LedgerLiability),
	SystemLedger(LedgerInputCGST, enum.LedgerAsset),
	SystemLedger(LedgerInputSGST, enum.LedgerAsset),
	SystemLedger(LedgerInputIGST, enum.LedgerAsset),
}

// LedgerSpec identifies a ledger and describes how to create it when absent
type LedgerSpec struct {
	Key            string
	Name           string
	Type           enum.LedgerType
	EntityType     enum.PartyType
	EntityID       *uuid.UUID
	OpeningBalance decimal.Decimal
	IsSystem       bool
}

// SystemLedger describes a business-wide ledger such as Cash Account
func SystemLedger(name string, ledgerType enum.LedgerType) LedgerSpec {
	return LedgerSpec{
		Key:        "system:" + strings.ToLower(string(ledgerType)) + ":" + strings.ToLower(name),
		Name:       name,
		Type:       ledgerType,
		EntityType: enum.PartySystem,
		IsSystem:   true,
	}
}

// CategoryLedger describes the per-category revenue (Income) or purchase (Expense) ledger
func CategoryLedger(category string, ledgerType enum.LedgerType) LedgerSpec {
	suffix := "Sales"
	if ledgerType == enum.LedgerExpense {
		suffix = "Purchase"
	}
	return LedgerSpec{
		Key:        "category:" + strings.ToLower(string(ledgerType)) + ":" + strings.ToLower(strings.TrimSpace(category)),
		Name:       fmt.Sprintf("Business %s %s", strings.TrimSpace(category), suffix),
		Type:       ledgerType,
		EntityType: enum.PartyCategory,
	}
}

// PartyLedgers describes the "Due By" (Asset, Dr) and "Due To" (Liability, Cr) pair owned by a
// supplier or customer. The opening balance lands on Due To for suppliers and Due By for customers.
func PartyLedgers(partyType enum.PartyType, id uuid.UUID, name, code string, opening decimal.Decimal) (dueBy, dueTo LedgerSpec) {
	entityID := id
	label := PartyLedgerLabel(name, code)
	dueBy = LedgerSpec{
		Key:        fmt.Sprintf("%s:%s:due_by", partyType, id),
		Name:       label + " - Due By",
		Type:       enum.LedgerAsset,
		EntityType: partyType,
		EntityID:   &entityID,
	}
	dueTo = LedgerSpec{
		Key:        fmt.Sprintf("%s:%s:due_to", partyType, id),
		Name:       label + " - Due To",
		Type:       enum.LedgerLiability,
		EntityType: partyType,
		EntityID:   &entityID,
	}
	if partyType == enum.PartyCustomer {
		dueBy.OpeningBalance = opening
	} else {
		dueTo.OpeningBalance = opening
	}
	return dueBy, dueTo
}

// PartyLedgerLabel is the common part of a party ledger name
func PartyLedgerLabel(name, code string) string {
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(name), code)
}

// PostingLine debits or credits one ledger
type PostingLine struct {
	LedgerID  uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration *string
}

// PostingRequest is a voucher before numbering
type PostingRequest struct {
	Type          enum.VoucherType
	Date          time.Time
	Narration     string
	ReferenceType string
	ReferenceID   *uuid.UUID
	Lines         []PostingLine
}

// ManualEntry is a caller-supplied ledger line on a stock-in or journal
type ManualEntry struct {
	LedgerID  uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration *string
}

// Poster writes balanced vouchers and keeps ledger balances in step with their entries
type Poster struct {
	transactor  repository.Transactor
	ledgerRepo  repository.LedgerRepository
	voucherRepo repository.VoucherRepository
	sequences   *SequenceAllocator
	logger      *logrus.Logger
	metrics     *metrics.Metrics
}

// NewPoster creates a new double-entry poster
func NewPoster(
	transactor repository.Transactor,
	ledgerRepo repository.LedgerRepository,
	voucherRepo repository.VoucherRepository,
	sequences *SequenceAllocator,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *Poster {
	return &Poster{
		transactor:  transactor,
		ledgerRepo:  ledgerRepo,
		voucherRepo: voucherRepo,
		sequences:   sequences,
		logger:      logger,
		metrics:     m,
	}
}

// EnsureLedger returns the ledger for spec, creating it on first use. A concurrent creator
// winning the unique key is not an error: its row is returned.
func (p *Poster) EnsureLedger(ctx context.Context, spec LedgerSpec) (*entity.Ledger, error) {
	ledger, err := p.ledgerRepo.GetByKey(ctx, spec.Key)
	if err != nil || ledger != nil {
		return ledger, err
	}

	ledger = &entity.Ledger{
		LedgerKey:      spec.Key,
		Name:           spec.Name,
		Type:           spec.Type,
		BalanceSide:    spec.Type.NormalSide(),
		OpeningBalance: spec.OpeningBalance,
		CurrentBalance: spec.OpeningBalance,
		EntityType:     spec.EntityType,
		EntityID:       spec.EntityID,
		IsSystem:       spec.IsSystem,
	}
	err = p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return p.ledgerRepo.Create(ctx, ledger)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return p.ledgerRepo.GetByKey(ctx, spec.Key)
	}
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// SeedStandardLedgers creates any standard ledger that does not exist yet
func (p *Poster) SeedStandardLedgers(ctx context.Context) error {
	for _, spec := range StandardLedgers {
		if _, err := p.EnsureLedger(ctx, spec); err != nil {
			return fmt.Errorf("seed ledger %s: %w", spec.Name, err)
		}
	}
	return nil
}

// Post numbers and saves a voucher, then applies every entry to its ledger. Zero lines are
// dropped; a request whose debits and credits differ fails with LedgerImbalance and writes nothing.
// Returns nil when no line carries an amount.
func (p *Poster) Post(ctx context.Context, req *PostingRequest) (*entity.Voucher, error) {
	entries := make([]entity.VoucherEntry, 0, len(req.Lines))
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range req.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, apperror.NewBadRequestError("Voucher amounts must not be negative")
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		entries = append(entries, entity.VoucherEntry{
			LedgerID:  line.LedgerID,
			LineNo:    len(entries) + 1,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Narration: line.Narration,
		})
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return nil, apperror.NewLedgerImbalanceError(debit, credit)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var voucher *entity.Voucher
	err := p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		number, release, err := p.sequences.Acquire(ctx, repository.VoucherNumbers, req.Type.NumberPrefix(), ScopePeriod, date)
		if err != nil {
			return err
		}
		if !repository.OnTransactionEnd(ctx, release) {
			defer release()
		}

		voucher = &entity.Voucher{
			VoucherNumber: number,
			Type:          req.Type,
			Date:          date,
			Narration:     req.Narration,
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
			TotalAmount:   debit,
			Entries:       entries,
		}
		if err := p.voucherRepo.Create(ctx, voucher); err != nil {
			return err
		}

		sides := make(map[uuid.UUID]enum.BalanceSide)
		for _, entry := range voucher.Entries {
			side, ok := sides[entry.LedgerID]
			if !ok {
				ledger, err := p.ledgerRepo.GetByID(ctx, entry.LedgerID)
				if err != nil {
					return err
				}
				if ledger == nil {
					return apperror.NewNotFoundError("Ledger " + entry.LedgerID.String())
				}
				side = ledger.BalanceSide
				sides[entry.LedgerID] = side
			}
			if err := p.ledgerRepo.ApplyDelta(ctx, entry.LedgerID, side.Effect(entry.Debit, entry.Credit)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.metrics.VoucherPosted(string(req.Type))
	return voucher, nil
}

// Reverse undoes every entry's effect on its ledger and deletes the voucher
func (p *Poster) Reverse(ctx context.Context, voucherID uuid.UUID) error {
	return p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		voucher, err := p.voucherRepo.GetByID(ctx, voucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return apperror.NewNotFoundError("Voucher")
		}
		return p.reverse(ctx, voucher)
	})
}

// ReverseByReference reverses every voucher pointing at a document, receipts included
func (p *Poster) ReverseByReference(ctx context.Context, refType string, refID uuid.UUID) error {
	return p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		vouchers, err := p.voucherRepo.ListByReference(ctx, refType, refID)
		if err != nil {
			return err
		}
		for i := range vouchers {
			full, err := p.voucherRepo.GetByID(ctx, vouchers[i].ID)
			if err != nil {
				return err
			}
			if full == nil {
				continue
			}
			if err := p.reverse(ctx, full); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Poster) reverse(ctx context.Context, voucher *entity.Voucher) error {
	for _, entry := range voucher.Entries {
		if entry.Ledger == nil {
			return apperror.NewNotFoundError("Ledger " + entry.LedgerID.String())
		}
		delta := entry.Ledger.BalanceSide.Effect(entry.Debit, entry.Credit).Neg()
		if err := p.ledgerRepo.ApplyDelta(ctx, entry.LedgerID, delta); err != nil {
			return err
		}
	}
	return p.voucherRepo.Delete(ctx, voucher.ID)
}

// PostSale posts a Sale or Sale Return. A sale debits the customer's Due By ledger (or Cash
// Account for a walk-in sale) and credits the category sales ledgers and tax payables; a return
// mirrors every line.
func (p *Poster) PostSale(ctx context.Context, sale *entity.SalesTransaction, lines []ComposedLine, customer *entity.Customer) (*entity.Voucher, error) {
	cash, err := p.EnsureLedger(ctx, SystemLedger(LedgerCash, enum.LedgerAsset))
	if err != nil {
		return nil, err
	}
	partyLedgerID := cash.ID
	if customer != nil {
		partyLedgerID, err = p.customerDueBy(ctx, customer)
		if err != nil {
			return nil, err
		}
	}

	b := newEntryBuilder()
	b.debit(partyLedgerID, sale.GrandTotal, "Invoice "+sale.InvoiceNumber)
	if err := p.addLedger(ctx, b, SystemLedger(LedgerDiscountAllowed, enum.LedgerExpense), sale.BillDiscount, true); err != nil {
		return nil, err
	}

	if err := p.addCategoryLines(ctx, b, lines, enum.LedgerIncome, false); err != nil {
		return nil, err
	}
	taxes := []struct {
		name   string
		amount decimal.Decimal
	}{
		{LedgerCGSTPayable, sale.TotalCGST},
		{LedgerSGSTPayable, sale.TotalSGST},
		{LedgerIGSTPayable, sale.TotalIGST},
	}
	for _, tax := range taxes {
		if err := p.addLedger(ctx, b, SystemLedger(tax.name, enum.LedgerLiability), tax.amount, false); err != nil {
			return nil, err
		}
	}
	if err := p.addRoundOff(ctx, b, sale.RoundOff, false); err != nil {
		return nil, err
	}

	if customer != nil && sale.PaidAmount.IsPositive() {
		b.debit(cash.ID, sale.PaidAmount, "Paid at billing")
		b.credit(partyLedgerID, sale.PaidAmount, "Paid at billing")
	}

	voucherType := enum.VoucherSales
	if sale.InvoiceType == enum.InvoiceSaleReturn {
		b.swap()
		voucherType = enum.VoucherJournal
	}

	saleID := sale.ID
	return p.Post(ctx, &PostingRequest{
		Type:          voucherType,
		Date:          sale.InvoiceDate,
		Narration:     fmt.Sprintf("%s %s", sale.InvoiceType, sale.InvoiceNumber),
		ReferenceType: string(sale.InvoiceType.StockReference()),
		ReferenceID:   &saleID,
		Lines:         b.lines,
	})
}

// PostPurchase posts a stock-in. Category purchase ledgers and input taxes are debited and the
// supplier's Due To ledger (or Cash Account) credited. Manual entries, when given, replace the
// generated ones and must balance on their own.
func (p *Poster) PostPurchase(ctx context.Context, purchase *entity.Purchase, lines []ComposedLine, supplier *entity.Supplier, manual []ManualEntry) (*entity.Voucher, error) {
	purchaseID := purchase.ID
	req := &PostingRequest{
		Type:          enum.VoucherPurchase,
		Date:          purchase.Date,
		Narration:     "Purchase " + purchase.PurchaseNo,
		ReferenceType: string(enum.ReferencePurchase),
		ReferenceID:   &purchaseID,
	}

	if len(manual) > 0 {
		lines, err := p.manualLines(ctx, manual)
		if err != nil {
			return nil, err
		}
		req.Lines = lines
		return p.Post(ctx, req)
	}

	cash, err := p.EnsureLedger(ctx, SystemLedger(LedgerCash, enum.LedgerAsset))
	if err != nil {
		return nil, err
	}
	partyLedgerID := cash.ID
	if supplier != nil {
		partyLedgerID, err = p.supplierDueTo(ctx, supplier)
		if err != nil {
			return nil, err
		}
	}

	b := newEntryBuilder()
	if err := p.addCategoryLines(ctx, b, lines, enum.LedgerExpense, true); err != nil {
		return nil, err
	}
	taxes := []struct {
		name   string
		amount decimal.Decimal
	}{
		{LedgerInputCGST, purchase.TotalCGST},
		{LedgerInputSGST, purchase.TotalSGST},
		{LedgerInputIGST, purchase.TotalIGST},
	}
	for _, tax := range taxes {
		if err := p.addLedger(ctx, b, SystemLedger(tax.name, enum.LedgerAsset), tax.amount, true); err != nil {
			return nil, err
		}
	}
	if err := p.addLedger(ctx, b, SystemLedger(LedgerDiscountReceived, enum.LedgerIncome), purchase.BillDiscount, false); err != nil {
		return nil, err
	}
	if err := p.addRoundOff(ctx, b, purchase.RoundOff, true); err != nil {
		return nil, err
	}
	b.credit(partyLedgerID, purchase.GrandTotal, "Bill "+purchase.PurchaseNo)

	if supplier != nil && purchase.PaidAmount.IsPositive() {
		b.debit(partyLedgerID, purchase.PaidAmount, "Paid at purchase")
		b.credit(cash.ID, purchase.PaidAmount, "Paid at purchase")
	}

	req.Lines = b.lines
	return p.Post(ctx, req)
}

// PostJournal posts a free-standing journal voucher from caller-supplied entries
func (p *Poster) PostJournal(ctx context.Context, date time.Time, narration string, manual []ManualEntry) (*entity.Voucher, error) {
	if len(manual) < 2 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "ledger_entries", Message: "at least two entries are required"}})
	}
	lines, err := p.manualLines(ctx, manual)
	if err != nil {
		return nil, err
	}
	return p.Post(ctx, &PostingRequest{
		Type:      enum.VoucherJournal,
		Date:      date,
		Narration: narration,
		Lines:     lines,
	})
}

// PostReceipt records money received against a customer's sale: Dr Cash Account, Cr Due By
func (p *Poster) PostReceipt(ctx context.Context, sale *entity.SalesTransaction, customer *entity.Customer, amount decimal.Decimal, date time.Time) (*entity.Voucher, error) {
	cash, err := p.EnsureLedger(ctx, SystemLedger(LedgerCash, enum.LedgerAsset))
	if err != nil {
		return nil, err
	}
	dueBy, err := p.customerDueBy(ctx, customer)
	if err != nil {
		return nil, err
	}

	b := newEntryBuilder()
	b.debit(cash.ID, amount, "Receipt for "+sale.InvoiceNumber)
	b.credit(dueBy, amount, "Receipt for "+sale.InvoiceNumber)

	saleID := sale.ID
	return p.Post(ctx, &PostingRequest{
		Type:          enum.VoucherReceipt,
		Date:          date,
		Narration:     "Receipt against " + sale.InvoiceNumber,
		ReferenceType: string(enum.ReferenceSale),
		ReferenceID:   &saleID,
		Lines:         b.lines,
	})
}

func (p *Poster) customerDueBy(ctx context.Context, customer *entity.Customer) (uuid.UUID, error) {
	if customer.DueByLedgerID != nil {
		return *customer.DueByLedgerID, nil
	}
	dueBy, _ := PartyLedgers(enum.PartyCustomer, customer.ID, customer.Name, customer.CustomerCode, decimal.Zero)
	ledger, err := p.EnsureLedger(ctx, dueBy)
	if err != nil {
		return uuid.Nil, err
	}
	return ledger.ID, nil
}

func (p *Poster) supplierDueTo(ctx context.Context, supplier *entity.Supplier) (uuid.UUID, error) {
	if supplier.DueToLedgerID != nil {
		return *supplier.DueToLedgerID, nil
	}
	_, dueTo := PartyLedgers(enum.PartySupplier, supplier.ID, supplier.Name, supplier.SupplierCode, decimal.Zero)
	ledger, err := p.EnsureLedger(ctx, dueTo)
	if err != nil {
		return uuid.Nil, err
	}
	return ledger.ID, nil
}

// addCategoryLines posts each line's taxable amount to its item's ledger, grouping lines that
// share a ledger. Items without a linked ledger fall back to their category ledger.
func (p *Poster) addCategoryLines(ctx context.Context, b *entryBuilder, lines []ComposedLine, ledgerType enum.LedgerType, debit bool) error {
	amounts := make(map[uuid.UUID]decimal.Decimal)
	names := make(map[uuid.UUID]string)
	var order []uuid.UUID

	for _, line := range lines {
		var ledgerID *uuid.UUID
		if line.Item != nil {
			if ledgerType == enum.LedgerIncome {
				ledgerID = line.Item.SalesLedgerID
			} else {
				ledgerID = line.Item.PurchaseLedgerID
			}
		}
		if ledgerID == nil {
			category := "General"
			if line.Item != nil {
				category = line.Item.CategoryName()
			}
			ledger, err := p.EnsureLedger(ctx, CategoryLedger(category, ledgerType))
			if err != nil {
				return err
			}
			ledgerID = &ledger.ID
			names[ledger.ID] = ledger.Name
		}
		if _, seen := amounts[*ledgerID]; !seen {
			order = append(order, *ledgerID)
		}
		amounts[*ledgerID] = amounts[*ledgerID].Add(line.TaxableAmount)
	}

	for _, id := range order {
		if debit {
			b.debit(id, amounts[id], names[id])
		} else {
			b.credit(id, amounts[id], names[id])
		}
	}
	return nil
}

func (p *Poster) addLedger(ctx context.Context, b *entryBuilder, spec LedgerSpec, amount decimal.Decimal, debit bool) error {
	if amount.IsZero() {
		return nil
	}
	ledger, err := p.EnsureLedger(ctx, spec)
	if err != nil {
		return err
	}
	if debit {
		b.debit(ledger.ID, amount, spec.Name)
	} else {
		b.credit(ledger.ID, amount, spec.Name)
	}
	return nil
}

// addRoundOff posts a positive round-off on the revenue side (credit for sales, debit for
// purchases) and a negative one on the opposite side
func (p *Poster) addRoundOff(ctx context.Context, b *entryBuilder, roundOff decimal.Decimal, purchase bool) error {
	if roundOff.IsZero() {
		return nil
	}
	debit := roundOff.IsNegative()
	if purchase {
		debit = !debit
	}
	return p.addLedger(ctx, b, SystemLedger(LedgerRoundOff, enum.LedgerExpense), roundOff.Abs(), debit)
}

func (p *Poster) manualLines(ctx context.Context, manual []ManualEntry) ([]PostingLine, error) {
	var fields []apperror.FieldError
	debit, credit := decimal.Zero, decimal.Zero
	lines := make([]PostingLine, 0, len(manual))

	for i, entry := range manual {
		prefix := fmt.Sprintf("ledger_entries[%d].", i)
		if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
			fields = append(fields, apperror.FieldError{Field: prefix + "amount", Message: "must not be negative"})
		}
		if entry.Debit.IsPositive() == entry.Credit.IsPositive() {
			fields = append(fields, apperror.FieldError{Field: prefix + "amount", Message: "exactly one of debit and credit must be set"})
		}
		ledger, err := p.ledgerRepo.GetByID(ctx, entry.LedgerID)
		if err != nil {
			return nil, err
		}
		if ledger == nil {
			fields = append(fields, apperror.FieldError{Field: prefix + "ledger_id", Message: "ledger does not exist"})
		}
		debit = debit.Add(entry.Debit)
		credit = credit.Add(entry.Credit)
		lines = append(lines, PostingLine{
			LedgerID:  entry.LedgerID,
			Debit:     entry.Debit,
			Credit:    entry.Credit,
			Narration: entry.Narration,
		})
	}
	if !debit.Equal(credit) {
		fields = append(fields, apperror.FieldError{
			Field:   "ledger_entries",
			Message: fmt.Sprintf("debits %s and credits %s must be equal", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}
	return lines, nil
}

type entryBuilder struct {
	lines []PostingLine
}

func newEntryBuilder() *entryBuilder {
	return &entryBuilder{}
}

func (b *entryBuilder) debit(ledgerID uuid.UUID, amount decimal.Decimal, narration string) {
	b.add(ledgerID, amount, decimal.Zero, narration)
}

func (b *entryBuilder) credit(ledgerID uuid.UUID, amount decimal.Decimal, narration string) {
	b.add(ledgerID, decimal.Zero, amount, narration)
}

func (b *entryBuilder) add(ledgerID uuid.UUID, debit, credit decimal.Decimal, narration string) {
	if debit.IsZero() && credit.IsZero() {
		return
	}
	line := PostingLine{LedgerID: ledgerID, Debit: debit, Credit: credit}
	if narration != "" {
		n := narration
		line.Narration = &n
	}
	b.lines = append(b.lines, line)
}

// swap mirrors every line, turning a sale posting into its return
func (b *entryBuilder) swap() {
	for i := range b.lines {
		b.lines[i].Debit, b.lines[i].Credit = b.lines[i].Credit, b.lines[i].Debit
	}
}
