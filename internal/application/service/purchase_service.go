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
	"github.com/sirupsen/logrus"
)

const purchaseNumberPrefix = "PUR"

// PurchaseService records stock-in bills: one purchase document, one stock movement per line and
// a purchase voucher
type PurchaseService struct {
	transactor   repository.Transactor
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
	stockRepo    repository.StockTransactionRepository
	composer     *Composer
	stock        *StockLedger
	poster       *Poster
	sequences    *SequenceAllocator
	policy       *PostingPolicy
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	transactor repository.Transactor,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
	stockRepo repository.StockTransactionRepository,
	composer *Composer,
	stock *StockLedger,
	poster *Poster,
	sequences *SequenceAllocator,
	policy *PostingPolicy,
) *PurchaseService {
	return &PurchaseService{
		transactor:   transactor,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		stockRepo:    stockRepo,
		composer:     composer,
		stock:        stock,
		poster:       poster,
		sequences:    sequences,
		policy:       policy,
	}
}

// StockInLine is one purchased line. SalesRate and PurchasePrice, when set, update the item master.
type StockInLine struct {
	LineInput
	SalesRate     *decimal.Decimal
	PurchasePrice *decimal.Decimal
}

// StockInInput represents a multi-line stock-in request
type StockInInput struct {
	SupplierID            *uuid.UUID
	SupplierInvoiceNumber *string
	PartyName             string
	PartyState            *string
	Date                  *time.Time
	PaymentMode           string
	PaidAmount            decimal.Decimal
	Items                 []StockInLine
	BillDiscount          *decimal.Decimal
	BillDiscountPercent   *decimal.Decimal
	RoundOff              *decimal.Decimal
	LedgerEntries         []ManualEntry
	Notes                 *string
}

// StockIn records a purchase. Stock moves in the same transaction as the document; the voucher
// follows the configured posting policy.
func (s *PurchaseService) StockIn(ctx context.Context, input *StockInInput) (*entity.Purchase, error) {
	var supplier *entity.Supplier
	if input.SupplierID != nil {
		var err error
		supplier, err = s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
	}

	partyName := strings.TrimSpace(input.PartyName)
	partyState := ""
	if supplier != nil {
		partyName = supplier.Name
		partyState = supplier.State
	}
	if partyName == "" {
		partyName = LedgerCash
	}
	if input.PartyState != nil {
		partyState = strings.TrimSpace(*input.PartyState)
	}
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	paymentMode := input.PaymentMode
	if paymentMode == "" {
		paymentMode = "Cash"
	}

	bill := &BillInput{
		PartyState:          partyState,
		Lines:               make([]LineInput, 0, len(input.Items)),
		BillDiscount:        input.BillDiscount,
		BillDiscountPercent: input.BillDiscountPercent,
		RoundOff:            input.RoundOff,
		PaidAmount:          input.PaidAmount,
		PriceSide:           PurchasePrice,
	}
	for _, line := range input.Items {
		bill.Lines = append(bill.Lines, line.LineInput)
	}

	var purchase *entity.Purchase
	err := withSequenceRetry(s.sequences.metrics, "purchase", func() error {
		number, release, err := s.sequences.Acquire(ctx, repository.PurchaseNumbers, purchaseNumberPrefix, ScopePeriod, date)
		if err != nil {
			return err
		}
		defer release()

		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			comp, err := s.composer.Compose(ctx, bill)
			if err != nil {
				return err
			}
			if comp.Totals.GrandTotal.IsNegative() {
				return apperror.NewValidationError([]apperror.FieldError{{Field: "bill_discount", Message: "must not exceed the bill total"}})
			}

			purchase = &entity.Purchase{
				PurchaseNo:            number,
				SupplierInvoiceNumber: input.SupplierInvoiceNumber,
				SupplierID:            input.SupplierID,
				PartyName:             partyName,
				PartyState:            partyState,
				Date:                  date,
				PaymentMode:           paymentMode,
				PaymentStatus:         comp.PaymentStatus,
				Status:                enum.PostingStatusPosted,
				Notes:                 input.Notes,
				BillTotals:            comp.Totals,
				Details:               make([]entity.PurchaseDetail, 0, len(comp.Lines)),
			}
			for i, line := range comp.Lines {
				purchase.Details = append(purchase.Details, entity.PurchaseDetail{LineNo: i + 1, LineAmounts: line.LineAmounts})
			}
			if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
				return err
			}

			if err := s.applyLines(ctx, purchase, input.Items, supplier); err != nil {
				return err
			}

			return s.postVoucher(ctx, purchase, comp.Lines, supplier, input.LedgerEntries)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.purchaseRepo.GetWithDetails(ctx, purchase.ID)
}

func (s *PurchaseService) applyLines(ctx context.Context, purchase *entity.Purchase, lines []StockInLine, supplier *entity.Supplier) error {
	purchaseID := purchase.ID
	var partyType *enum.PartyType
	if supplier != nil {
		pt := enum.PartySupplier
		partyType = &pt
	}
	partyName := purchase.PartyName
	paymentMode := purchase.PaymentMode

	for i := range purchase.Details {
		detail := &purchase.Details[i]
		if err := s.itemRepo.UpdatePrices(ctx, detail.ItemID, lines[i].PurchasePrice, lines[i].SalesRate); err != nil {
			return err
		}

		row, err := s.stock.ApplyMovement(ctx, Movement{
			ItemID:          detail.ItemID,
			Kind:            enum.StockIn,
			Quantity:        detail.StockQuantity(),
			Rate:            detail.Rate,
			ReferenceType:   enum.ReferencePurchase,
			ReferenceID:     &purchaseID,
			PartyType:       partyType,
			PartyID:         purchase.SupplierID,
			PartyName:       &partyName,
			PaymentMode:     &paymentMode,
			TransactionDate: purchase.Date,
			Notes:           purchase.Notes,
		})
		if err != nil {
			return err
		}
		if err := s.purchaseRepo.LinkDetailStock(ctx, detail.ID, row.ID); err != nil {
			return err
		}
		detail.StockTransactionID = &row.ID
	}
	return nil
}

func (s *PurchaseService) postVoucher(ctx context.Context, purchase *entity.Purchase, lines []ComposedLine, supplier *entity.Supplier, manual []ManualEntry) error {
	fields := logrus.Fields{
		"module":      "purchase",
		"purchase_id": purchase.ID.String(),
		"purchase_no": purchase.PurchaseNo,
	}

	swallowed, err := s.policy.Run(ctx, "stock_in_voucher", fields, func(ctx context.Context) error {
		voucher, err := s.poster.PostPurchase(ctx, purchase, lines, supplier, manual)
		if err != nil || voucher == nil {
			return err
		}
		purchase.VoucherID = &voucher.ID
		return s.stockRepo.SetVoucher(ctx, enum.ReferencePurchase, purchase.ID, &voucher.ID)
	})
	if err != nil {
		return err
	}
	if swallowed != nil {
		msg := swallowed.Error()
		purchase.VoucherID = nil
		purchase.VoucherError = &msg
	}
	return s.purchaseRepo.UpdateHeader(ctx, purchase)
}

// GetPurchase retrieves a purchase with its lines
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(purchases, params.Pagination, total), nil
}

// DeletePurchase takes the purchased stock back out and reverses the voucher. It fails with
// InsufficientStock when part of the stock has already been sold.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		purchase, err := s.purchaseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return apperror.NewNotFoundError("Purchase")
		}

		if err := s.stock.ReverseByReference(ctx, enum.ReferencePurchase, id); err != nil {
			return err
		}
		if err := s.poster.ReverseByReference(ctx, string(enum.ReferencePurchase), id); err != nil {
			return err
		}

		purchase.Status = enum.PostingStatusReversed
		purchase.VoucherID = nil
		if err := s.purchaseRepo.UpdateHeader(ctx, purchase); err != nil {
			return err
		}
		return s.purchaseRepo.Delete(ctx, id)
	})
}
