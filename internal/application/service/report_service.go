package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ReportService provides read-only accounting and stock reports
type ReportService struct {
	ledgerRepo repository.LedgerRepository
	reportRepo repository.ReportRepository
	stock      *StockLedger
}

// NewReportService creates a new report service
func NewReportService(ledgerRepo repository.LedgerRepository, reportRepo repository.ReportRepository, stock *StockLedger) *ReportService {
	return &ReportService{
		ledgerRepo: ledgerRepo,
		reportRepo: reportRepo,
		stock:      stock,
	}
}

// TrialBalanceRow is one ledger's closing balance placed in its debit or credit column
type TrialBalanceRow struct {
	LedgerID uuid.UUID       `json:"ledger_id"`
	Name     string          `json:"name"`
	Type     enum.LedgerType `json:"type"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
}

// TrialBalance lists every ledger with a non-zero balance. Difference is non-zero only when
// opening balances were entered without a contra ledger.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Difference  decimal.Decimal   `json:"difference"`
}

// SalesSummary aggregates posted sales per invoice type over a period
type SalesSummary struct {
	From  time.Time                    `json:"from"`
	To    time.Time                    `json:"to"`
	Types []repository.SalesSummaryRow `json:"types"`
}

// StockMovementSummary aggregates quantities in and out per item over a period
type StockMovementSummary struct {
	From  time.Time                     `json:"from"`
	To    time.Time                     `json:"to"`
	Items []repository.StockMovementRow `json:"items"`
}

// StockBalance returns the valuation of every active item
func (s *ReportService) StockBalance(ctx context.Context) (*StockBalanceReport, error) {
	return s.stock.BalanceReport(ctx)
}

// TrialBalance builds the trial balance from current ledger balances
func (s *ReportService) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	ledgers, err := s.ledgerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{Rows: make([]TrialBalanceRow, 0, len(ledgers))}
	for _, ledger := range ledgers {
		if ledger.CurrentBalance.IsZero() {
			continue
		}
		row := TrialBalanceRow{LedgerID: ledger.ID, Name: ledger.Name, Type: ledger.Type}

		// A negative balance sits on the opposite side
		onDebit := ledger.BalanceSide == enum.SideDebit
		if ledger.CurrentBalance.IsNegative() {
			onDebit = !onDebit
		}
		if onDebit {
			row.Debit = ledger.CurrentBalance.Abs()
			report.TotalDebit = report.TotalDebit.Add(row.Debit)
		} else {
			row.Credit = ledger.CurrentBalance.Abs()
			report.TotalCredit = report.TotalCredit.Add(row.Credit)
		}
		report.Rows = append(report.Rows, row)
	}
	report.Difference = report.TotalDebit.Sub(report.TotalCredit)
	return report, nil
}

// SalesSummary aggregates posted sales between from (inclusive) and to (exclusive)
func (s *ReportService) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &SalesSummary{From: from, To: to, Types: rows}, nil
}

// StockMovementSummary aggregates stock movements between from (inclusive) and to (exclusive)
func (s *ReportService) StockMovementSummary(ctx context.Context, from, to time.Time) (*StockMovementSummary, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.StockMovementSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &StockMovementSummary{From: from, To: to, Items: rows}, nil
}

func checkPeriod(from, to time.Time) error {
	if !to.After(from) {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "must be after from"}})
	}
	return nil
}
