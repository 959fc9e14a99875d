package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SalesService handles invoices and their quotation-like siblings. For Sale and Sale Return the
// document, its stock movements and its voucher are written in one transaction.
type SalesService struct {
	transactor   repository.Transactor
	salesRepo    repository.SalesTransactionRepository
	customerRepo repository.CustomerRepository
	stockRepo    repository.StockTransactionRepository
	voucherRepo  repository.VoucherRepository
	composer     *Composer
	stock        *StockLedger
	poster       *Poster
	sequences    *SequenceAllocator
}

// NewSalesService creates a new sales service
func NewSalesService(
	transactor repository.Transactor,
	salesRepo repository.SalesTransactionRepository,
	customerRepo repository.CustomerRepository,
	stockRepo repository.StockTransactionRepository,
	voucherRepo repository.VoucherRepository,
	composer *Composer,
	stock *StockLedger,
	poster *Poster,
	sequences *SequenceAllocator,
) *SalesService {
	return &SalesService{
		transactor:   transactor,
		salesRepo:    salesRepo,
		customerRepo: customerRepo,
		stockRepo:    stockRepo,
		voucherRepo:  voucherRepo,
		composer:     composer,
		stock:        stock,
		poster:       poster,
		sequences:    sequences,
	}
}

// SaleInput represents a create, update or preview request
type SaleInput struct {
	InvoiceType         enum.InvoiceType
	InvoiceNumber       string
	InvoiceDate         *time.Time
	CustomerID          *uuid.UUID
	PartyName           string
	PartyPhone          *string
	PartyState          *string
	PaymentMode         string
	PaidAmount          decimal.Decimal
	PreviousBalance     decimal.Decimal
	Items               []LineInput
	BillDiscount        *decimal.Decimal
	BillDiscountPercent *decimal.Decimal
	RoundOff            *decimal.Decimal
	Notes               *string
}

// PaymentInput records money received against a sale
type PaymentInput struct {
	Amount      decimal.Decimal
	Date        *time.Time
	PaymentMode string
}

// resolvedParty is the customer and billing snapshot for a sale
type resolvedParty struct {
	customer *entity.Customer
	name     string
	phone    *string
	state    string
}

// CreateSale composes, numbers and posts a sales document
func (s *SalesService) CreateSale(ctx context.Context, input *SaleInput) (*entity.SalesTransaction, error) {
	invoiceType, err := normalizeInvoiceType(input.InvoiceType)
	if err != nil {
		return nil, err
	}
	party, err := s.resolveParty(ctx, input)
	if err != nil {
		return nil, err
	}
	date := time.Now()
	if input.InvoiceDate != nil {
		date = *input.InvoiceDate
	}

	number := strings.TrimSpace(input.InvoiceNumber)
	if number != "" {
		if err := s.sequences.Claim(ctx, repository.InvoiceNumbers, "Invoice number", number); err != nil {
			return nil, err
		}
	}

	var sale *entity.SalesTransaction
	err = withSequenceRetry(s.sequences.metrics, "sale", func() error {
		invoiceNumber, release := number, func() {}
		if invoiceNumber == "" {
			var err error
			invoiceNumber, release, err = s.sequences.Acquire(ctx, repository.InvoiceNumbers, invoiceType.NumberPrefix(), ScopePeriod, date)
			if err != nil {
				return err
			}
		}
		defer release()

		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			comp, err := s.compose(ctx, invoiceType, party, input)
			if err != nil {
				return err
			}

			sale = &entity.SalesTransaction{
				InvoiceNumber: invoiceNumber,
				InvoiceType:   invoiceType,
				InvoiceDate:   date,
				Items:         salesLines(comp),
			}
			fillSaleHeader(sale, party, input, comp)
			if err := s.salesRepo.Create(ctx, sale); err != nil {
				return err
			}
			return s.post(ctx, sale, comp, party.customer)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.salesRepo.GetWithDetails(ctx, sale.ID)
}

// PreviewSale computes a bill without persisting anything
func (s *SalesService) PreviewSale(ctx context.Context, input *SaleInput) (*Composition, error) {
	invoiceType, err := normalizeInvoiceType(input.InvoiceType)
	if err != nil {
		return nil, err
	}
	party, err := s.resolveParty(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, invoiceType, party, input)
}

// NextNumber previews the number the next document of invoiceType would get
func (s *SalesService) NextNumber(ctx context.Context, invoiceType enum.InvoiceType) (string, error) {
	invoiceType, err := normalizeInvoiceType(invoiceType)
	if err != nil {
		return "", err
	}
	return s.sequences.NextID(ctx, repository.InvoiceNumbers, invoiceType.NumberPrefix(), ScopePeriod, time.Now())
}

// GetSale retrieves a sale with its lines
func (s *SalesService) GetSale(ctx context.Context, id uuid.UUID) (*entity.SalesTransaction, error) {
	sale, err := s.salesRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sales transaction")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SalesService) ListSales(ctx context.Context, params *repository.SalesFilterParams) (*pagination.PaginatedResult[entity.SalesTransaction], error) {
	sales, total, err := s.salesRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(sales, params.Pagination, total), nil
}

// UpdateSale reverses the posted stock and vouchers of a sale and posts the edited bill in their
// place. Sales with recorded receipts cannot be edited, and the document type is fixed.
func (s *SalesService) UpdateSale(ctx context.Context, id uuid.UUID, input *SaleInput) (*entity.SalesTransaction, error) {
	existing, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == enum.PostingStatusReversed {
		return nil, apperror.NewConflictError("Sales transaction has been reversed")
	}
	if input.InvoiceType != "" && input.InvoiceType != existing.InvoiceType {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "invoice_type", Message: "cannot be changed"}})
	}
	hasReceipts, err := s.hasReceipts(ctx, existing)
	if err != nil {
		return nil, err
	}
	if hasReceipts {
		return nil, apperror.NewConflictError("Sales transaction has receipts recorded and cannot be edited")
	}

	party, err := s.resolveParty(ctx, input)
	if err != nil {
		return nil, err
	}

	err = withSequenceRetry(s.sequences.metrics, "sale", func() error {
		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			sale, err := s.salesRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if sale == nil {
				return apperror.NewNotFoundError("Sales transaction")
			}
			if err := s.unpost(ctx, sale); err != nil {
				return err
			}

			comp, err := s.compose(ctx, sale.InvoiceType, party, input)
			if err != nil {
				return err
			}
			if input.InvoiceDate != nil {
				sale.InvoiceDate = *input.InvoiceDate
			}
			fillSaleHeader(sale, party, input, comp)
			sale.VoucherID = nil

			items := salesLines(comp)
			if err := s.salesRepo.ReplaceItems(ctx, sale.ID, items); err != nil {
				return err
			}
			if err := s.salesRepo.UpdateHeader(ctx, sale); err != nil {
				return err
			}
			return s.post(ctx, sale, comp, party.customer)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.salesRepo.GetWithDetails(ctx, id)
}

// DeleteSale reverses every stock movement and voucher of the sale, receipts included, marks it
// Reversed and removes it
func (s *SalesService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.salesRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sales transaction")
		}
		if err := s.unpost(ctx, sale); err != nil {
			return err
		}

		sale.Status = enum.PostingStatusReversed
		sale.VoucherID = nil
		if err := s.salesRepo.UpdateHeader(ctx, sale); err != nil {
			return err
		}
		return s.salesRepo.Delete(ctx, id)
	})
}

// RecordPayment adds a receipt to a posted Sale and recomputes its balance and payment status.
// A collision on the generated receipt number reruns the payment in a fresh transaction.
func (s *SalesService) RecordPayment(ctx context.Context, id uuid.UUID, input *PaymentInput) (*entity.SalesTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "must be greater than zero"}})
	}
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	err := withSequenceRetry(s.sequences.metrics, "receipt", func() error {
		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			sale, err := s.salesRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if sale == nil {
				return apperror.NewNotFoundError("Sales transaction")
			}
			if sale.InvoiceType != enum.InvoiceSale || sale.Status != enum.PostingStatusPosted {
				return apperror.NewBadRequestError("Payments can only be recorded against a posted Sale")
			}
			amount := input.Amount.Round(2)
			if amount.GreaterThan(sale.Balance) {
				return apperror.NewValidationError([]apperror.FieldError{{
					Field:   "amount",
					Message: "must not exceed the outstanding balance " + sale.Balance.StringFixed(2),
				}})
			}

			sale.PaidAmount = sale.PaidAmount.Add(amount)
			sale.Balance = sale.TotalDue.Sub(sale.PaidAmount)
			sale.PaymentStatus = enum.DerivePaymentStatus(sale.PaidAmount, sale.TotalDue)
			if input.PaymentMode != "" {
				sale.PaymentMode = input.PaymentMode
			}
			if err := s.salesRepo.UpdateHeader(ctx, sale); err != nil {
				return err
			}

			if sale.CustomerID == nil {
				return nil
			}
			customer, err := s.customerRepo.GetByID(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
			_, err = s.poster.PostReceipt(ctx, sale, customer, amount, date)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return s.salesRepo.GetWithDetails(ctx, id)
}

// post applies stock for every line and posts the voucher. Quotation types stay Draft and post nothing.
func (s *SalesService) post(ctx context.Context, sale *entity.SalesTransaction, comp *Composition, customer *entity.Customer) error {
	if !sale.InvoiceType.AffectsStock() {
		sale.Status = enum.PostingStatusDraft
		return s.salesRepo.UpdateHeader(ctx, sale)
	}

	saleID := sale.ID
	var partyType *enum.PartyType
	if customer != nil {
		pt := enum.PartyCustomer
		partyType = &pt
	}
	partyName := sale.PartyName
	paymentMode := sale.PaymentMode

	for _, line := range comp.Lines {
		_, err := s.stock.ApplyMovement(ctx, Movement{
			ItemID:          line.ItemID,
			Kind:            sale.InvoiceType.StockKind(),
			Quantity:        line.StockQuantity(),
			Rate:            line.Rate,
			ReferenceType:   sale.InvoiceType.StockReference(),
			ReferenceID:     &saleID,
			PartyType:       partyType,
			PartyID:         sale.CustomerID,
			PartyName:       &partyName,
			PaymentMode:     &paymentMode,
			TransactionDate: sale.InvoiceDate,
		})
		if err != nil {
			return err
		}
	}

	voucher, err := s.poster.PostSale(ctx, sale, comp.Lines, customer)
	if err != nil {
		return err
	}
	if voucher != nil {
		sale.VoucherID = &voucher.ID
		if err := s.stockRepo.SetVoucher(ctx, sale.InvoiceType.StockReference(), sale.ID, &voucher.ID); err != nil {
			return err
		}
	}
	sale.Status = enum.PostingStatusPosted
	return s.salesRepo.UpdateHeader(ctx, sale)
}

// unpost undoes the stock and vouchers a sale wrote
func (s *SalesService) unpost(ctx context.Context, sale *entity.SalesTransaction) error {
	if !sale.InvoiceType.AffectsStock() {
		return nil
	}
	ref := sale.InvoiceType.StockReference()
	if err := s.stock.ReverseByReference(ctx, ref, sale.ID); err != nil {
		return err
	}
	return s.poster.ReverseByReference(ctx, string(ref), sale.ID)
}

func (s *SalesService) compose(ctx context.Context, invoiceType enum.InvoiceType, party *resolvedParty, input *SaleInput) (*Composition, error) {
	comp, err := s.composer.Compose(ctx, &BillInput{
		PartyState:          party.state,
		Lines:               input.Items,
		BillDiscount:        input.BillDiscount,
		BillDiscountPercent: input.BillDiscountPercent,
		RoundOff:            input.RoundOff,
		PreviousBalance:     input.PreviousBalance,
		PaidAmount:          input.PaidAmount,
		PriceSide:           SalePrice,
		CheckStock:          invoiceType == enum.InvoiceSale,
	})
	if err != nil {
		return nil, err
	}
	if comp.Totals.GrandTotal.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "bill_discount", Message: "must not exceed the bill total"}})
	}
	return comp, nil
}

func (s *SalesService) resolveParty(ctx context.Context, input *SaleInput) (*resolvedParty, error) {
	party := &resolvedParty{
		name:  strings.TrimSpace(input.PartyName),
		phone: input.PartyPhone,
	}
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		party.customer = customer
		party.name = customer.Name
		party.state = customer.State
		if party.phone == nil {
			party.phone = customer.Phone
		}
	}
	if input.PartyState != nil {
		party.state = strings.TrimSpace(*input.PartyState)
	}
	if party.name == "" {
		party.name = "Cash Sale"
	}
	return party, nil
}

func (s *SalesService) hasReceipts(ctx context.Context, sale *entity.SalesTransaction) (bool, error) {
	vouchers, err := s.voucherRepo.ListByReference(ctx, string(sale.InvoiceType.StockReference()), sale.ID)
	if err != nil {
		return false, err
	}
	for _, v := range vouchers {
		if v.Type == enum.VoucherReceipt {
			return true, nil
		}
	}
	return false, nil
}

func fillSaleHeader(sale *entity.SalesTransaction, party *resolvedParty, input *SaleInput, comp *Composition) {
	sale.CustomerID = nil
	if party.customer != nil {
		sale.CustomerID = &party.customer.ID
	}
	sale.PartyName = party.name
	sale.PartyPhone = party.phone
	sale.PartyState = party.state
	sale.PaymentMode = input.PaymentMode
	if sale.PaymentMode == "" {
		sale.PaymentMode = "Cash"
	}
	sale.PaymentStatus = comp.PaymentStatus
	sale.Notes = input.Notes
	sale.BillTotals = comp.Totals
}

func salesLines(comp *Composition) []entity.SalesLineItem {
	items := make([]entity.SalesLineItem, 0, len(comp.Lines))
	for i, line := range comp.Lines {
		items = append(items, entity.SalesLineItem{LineNo: i + 1, LineAmounts: line.LineAmounts})
	}
	return items
}

func normalizeInvoiceType(t enum.InvoiceType) (enum.InvoiceType, error) {
	if t == "" {
		return enum.InvoiceSale, nil
	}
	if !t.IsValid() {
		return "", apperror.NewValidationError([]apperror.FieldError{{
			Field:   "invoice_type",
			Message: "must be one of Sale, Sale Return, Estimate, Delivery Challan, Proforma",
		}})
	}
	return t, nil
}
