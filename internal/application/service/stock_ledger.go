package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/metrics"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxBalanceRetries bounds the compare-and-set loop on an item balance
const maxBalanceRetries = 5

// StockLedger owns every write to an item's current balance. Each movement appends a row to the
// stock log and moves the balance projection in the same transaction.
type StockLedger struct {
	transactor repository.Transactor
	itemRepo   repository.ItemRepository
	stockRepo  repository.StockTransactionRepository
	logger     *logrus.Logger
	metrics    *metrics.Metrics

	clockMu   sync.Mutex
	lastStamp time.Time
	now       func() time.Time
}

// NewStockLedger creates a new stock ledger
func NewStockLedger(
	transactor repository.Transactor,
	itemRepo repository.ItemRepository,
	stockRepo repository.StockTransactionRepository,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *StockLedger {
	return &StockLedger{
		transactor: transactor,
		itemRepo:   itemRepo,
		stockRepo:  stockRepo,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Movement describes one quantity change to apply
type Movement struct {
	ItemID          uuid.UUID
	Kind            enum.TransactionKind
	Quantity        decimal.Decimal
	Rate            decimal.Decimal
	ReferenceType   enum.ReferenceType
	ReferenceID     *uuid.UUID
	PartyType       *enum.PartyType
	PartyID         *uuid.UUID
	PartyName       *string
	PaymentMode     *string
	PaidAmount      decimal.Decimal
	TransactionDate time.Time
	Notes           *string
}

// StockOutInput represents a standalone stock-out request
type StockOutInput struct {
	ItemID          uuid.UUID
	Quantity        decimal.Decimal
	Rate            *decimal.Decimal
	ReferenceType   enum.ReferenceType
	TransactionDate *time.Time
	Notes           *string
}

// UpdateMovementInput carries the new effect of an edited standalone movement
type UpdateMovementInput struct {
	Kind            enum.TransactionKind
	Quantity        decimal.Decimal
	Rate            *decimal.Decimal
	TransactionDate *time.Time
	Notes           *string
}

// StockBalanceRow is one line of the balance report
type StockBalanceRow struct {
	ItemID         uuid.UUID       `json:"item_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	StockValue     decimal.Decimal `json:"stock_value"`
	LowStockAlert  decimal.Decimal `json:"low_stock_alert"`
	IsLowStock     bool            `json:"is_low_stock"`
}

// StockBalanceReport lists every active item with its valuation
type StockBalanceReport struct {
	Items         []StockBalanceRow `json:"items"`
	TotalValue    decimal.Decimal   `json:"total_value"`
	LowStockCount int               `json:"low_stock_count"`
}

// ApplyMovement appends a movement to the log and moves the item balance. A Stock Out that would
// leave the balance below zero fails with InsufficientStock and writes nothing.
func (l *StockLedger) ApplyMovement(ctx context.Context, m Movement) (*entity.StockTransaction, error) {
	if err := validateMovement(m.Kind, m.Quantity); err != nil {
		return nil, err
	}
	if !m.ReferenceType.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "reference_type", Message: "must be one of Purchase, Sale, Opening, Adjustment, Return, Transfer"},
		})
	}

	var row *entity.StockTransaction
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := l.adjust(ctx, m.ItemID, m.Kind.Signed(m.Quantity))
		if err != nil {
			return err
		}

		date := m.TransactionDate
		if date.IsZero() {
			date = l.now()
		}
		row = &entity.StockTransaction{
			ItemID:          m.ItemID,
			Kind:            m.Kind,
			Quantity:        m.Quantity,
			Rate:            m.Rate,
			Amount:          m.Quantity.Mul(m.Rate).Round(2),
			BalanceAfter:    balance,
			ReferenceType:   m.ReferenceType,
			ReferenceID:     m.ReferenceID,
			PartyType:       m.PartyType,
			PartyID:         m.PartyID,
			PartyName:       m.PartyName,
			PaymentMode:     m.PaymentMode,
			PaidAmount:      m.PaidAmount,
			TransactionDate: date,
			Notes:           m.Notes,
			CreatedAt:       l.stamp(),
		}
		return l.stockRepo.Create(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	l.metrics.StockMovement(string(m.Kind), string(m.ReferenceType))
	return row, nil
}

// StockOut removes stock outside any sale, recorded as an Adjustment unless told otherwise
func (l *StockLedger) StockOut(ctx context.Context, input *StockOutInput) (*entity.StockTransaction, error) {
	refType := input.ReferenceType
	if refType == "" {
		refType = enum.ReferenceAdjustment
	}
	if refType.IsDocumentOwned() {
		return nil, apperror.NewBadRequestError("Stock out for " + string(refType) + " must be recorded through its document")
	}

	item, err := l.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	rate := item.PurchasePrice
	if input.Rate != nil {
		rate = *input.Rate
	}
	m := Movement{
		ItemID:        input.ItemID,
		Kind:          enum.StockOut,
		Quantity:      input.Quantity,
		Rate:          rate,
		ReferenceType: refType,
		Notes:         input.Notes,
	}
	if input.TransactionDate != nil {
		m.TransactionDate = *input.TransactionDate
	}
	return l.ApplyMovement(ctx, m)
}

// GetTransaction retrieves one stock log row
func (l *StockLedger) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.StockTransaction, error) {
	row, err := l.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperror.NewNotFoundError("Stock transaction")
	}
	return row, nil
}

// ListTransactions lists stock log rows, newest first
func (l *StockLedger) ListTransactions(ctx context.Context, params *repository.StockFilterParams) (*pagination.PaginatedResult[entity.StockTransaction], error) {
	rows, total, err := l.stockRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, params.Pagination, total), nil
}

// UpdateMovement edits a standalone movement. The original effect is reversed and the new one
// applied as a single net change; later rows of the item get their snapshots recomputed.
func (l *StockLedger) UpdateMovement(ctx context.Context, id uuid.UUID, input *UpdateMovementInput) (*entity.StockTransaction, error) {
	if err := validateMovement(input.Kind, input.Quantity); err != nil {
		return nil, err
	}

	var row *entity.StockTransaction
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = l.stockRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return apperror.NewNotFoundError("Stock transaction")
		}
		if row.ReferenceType.IsDocumentOwned() {
			return apperror.NewBadRequestError("Stock transaction belongs to a " + string(row.ReferenceType) + " and must be changed through it")
		}

		net := input.Kind.Signed(input.Quantity).Sub(row.Delta())
		if _, err := l.adjust(ctx, row.ItemID, net); err != nil {
			return err
		}

		row.Kind = input.Kind
		row.Quantity = input.Quantity
		if input.Rate != nil {
			row.Rate = *input.Rate
		}
		row.Amount = row.Quantity.Mul(row.Rate).Round(2)
		if input.TransactionDate != nil {
			row.TransactionDate = *input.TransactionDate
		}
		if input.Notes != nil {
			row.Notes = input.Notes
		}
		row.Item = nil
		if err := l.stockRepo.Update(ctx, row); err != nil {
			return err
		}

		_, err = l.replay(ctx, row.ItemID, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	return l.stockRepo.GetByID(ctx, id)
}

// DeleteMovement reverses a standalone movement and removes it from the log
func (l *StockLedger) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	return l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := l.stockRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return apperror.NewNotFoundError("Stock transaction")
		}
		if row.ReferenceType.IsDocumentOwned() {
			return apperror.NewBadRequestError("Stock transaction belongs to a " + string(row.ReferenceType) + " and must be removed through it")
		}
		return l.reverseRows(ctx, []entity.StockTransaction{*row})
	})
}

// ReverseByReference undoes every movement a document wrote. Must run inside the caller's transaction.
func (l *StockLedger) ReverseByReference(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID) error {
	rows, err := l.stockRepo.ListByReference(ctx, refType, refID)
	if err != nil {
		return err
	}
	return l.reverseRows(ctx, rows)
}

// RebuildBalance replays an item's log from zero, rewrites every snapshot and resets the projection
func (l *StockLedger) RebuildBalance(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := l.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Item")
		}

		balance, err = l.replay(ctx, itemID, false)
		if err != nil {
			return err
		}
		if balance.IsNegative() {
			return apperror.NewConflictError("Stock log for " + item.Name + " replays to a negative balance " + balance.String())
		}
		return l.itemRepo.SetBalance(ctx, itemID, balance)
	})
	if err != nil {
		return decimal.Zero, err
	}

	l.metrics.BalanceRebuilt()
	l.logger.WithFields(logrus.Fields{
		"module":  "stock_ledger",
		"item_id": itemID.String(),
		"balance": balance.String(),
	}).Info("stock balance rebuilt from log")
	return balance, nil
}

// BalanceReport values every active item at its purchase price
func (l *StockLedger) BalanceReport(ctx context.Context) (*StockBalanceReport, error) {
	items, err := l.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &StockBalanceReport{Items: []StockBalanceRow{}, TotalValue: decimal.Zero}
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		row := StockBalanceRow{
			ItemID:         item.ID,
			Code:           item.Code,
			Name:           item.Name,
			Category:       item.CategoryName(),
			CurrentBalance: item.CurrentBalance,
			PurchasePrice:  item.PurchasePrice,
			StockValue:     item.CurrentBalance.Mul(item.PurchasePrice).Round(2),
			LowStockAlert:  item.LowStockAlert,
			IsLowStock:     item.IsLowStock(),
		}
		if item.Unit != nil {
			row.Unit = item.Unit.ShortCode
		}
		if row.IsLowStock {
			report.LowStockCount++
		}
		report.TotalValue = report.TotalValue.Add(row.StockValue)
		report.Items = append(report.Items, row)
	}
	return report, nil
}

// reverseRows undoes each row's effect on its item, deletes the rows and recomputes snapshots
func (l *StockLedger) reverseRows(ctx context.Context, rows []entity.StockTransaction) error {
	touched := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		if _, err := l.adjust(ctx, row.ItemID, row.Delta().Neg()); err != nil {
			return err
		}
		if err := l.stockRepo.Delete(ctx, row.ID); err != nil {
			return err
		}
		touched[row.ItemID] = struct{}{}
	}

	for itemID := range touched {
		if _, err := l.replay(ctx, itemID, true); err != nil {
			return err
		}
	}
	return nil
}

// adjust moves an item's balance by delta with a compare-and-set on the value it read, so two
// writers can never both pass the non-negative check against the same stale balance
func (l *StockLedger) adjust(ctx context.Context, itemID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		item, err := l.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return decimal.Zero, err
		}
		if item == nil {
			return decimal.Zero, apperror.NewNotFoundError("Item")
		}

		next := item.CurrentBalance.Add(delta)
		if next.IsNegative() {
			l.metrics.InsufficientStock()
			return decimal.Zero, apperror.NewInsufficientStockError(item.Name, item.CurrentBalance, delta.Neg())
		}
		if delta.IsZero() {
			return next, nil
		}

		ok, err := l.itemRepo.CompareAndSetBalance(ctx, itemID, item.CurrentBalance, next)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			return next, nil
		}
	}
	return decimal.Zero, apperror.NewConflictError("Item balance is changing concurrently, please retry")
}

// replay walks an item's log in order and rewrites any balanceAfter that disagrees with the running sum.
// When strict, a running sum below zero fails with InsufficientStock naming the movement it can no longer cover.
func (l *StockLedger) replay(ctx context.Context, itemID uuid.UUID, strict bool) (decimal.Decimal, error) {
	rows, err := l.stockRepo.ListByItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, row := range rows {
		before := balance
		balance = balance.Add(row.Delta())
		if strict && balance.IsNegative() {
			return decimal.Zero, l.uncovered(ctx, itemID, before, row.Quantity)
		}
		if row.BalanceAfter.Equal(balance) {
			continue
		}
		if err := l.stockRepo.UpdateBalanceAfter(ctx, row.ID, balance); err != nil {
			return decimal.Zero, err
		}
	}
	return balance, nil
}

// uncovered builds the InsufficientStock error for a logged movement whose earlier cover was removed
func (l *StockLedger) uncovered(ctx context.Context, itemID uuid.UUID, available, requested decimal.Decimal) error {
	l.metrics.InsufficientStock()
	name := itemID.String()
	if item, err := l.itemRepo.GetByID(ctx, itemID); err == nil && item != nil {
		name = item.Name
	}
	return apperror.NewInsufficientStockError(name, available, requested)
}

// stamp returns a strictly increasing creation time so log order follows application order
func (l *StockLedger) stamp() time.Time {
	l.clockMu.Lock()
	defer l.clockMu.Unlock()

	t := l.now().UTC().Truncate(time.Microsecond)
	if !t.After(l.lastStamp) {
		t = l.lastStamp.Add(time.Microsecond)
	}
	l.lastStamp = t
	return t
}

func validateMovement(kind enum.TransactionKind, quantity decimal.Decimal) error {
	var fields []apperror.FieldError
	if !kind.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "kind", Message: "must be Stock In or Stock Out"})
	}
	if !quantity.IsPositive() {
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}
