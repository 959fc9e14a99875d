package repository

import (
	"context"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesSummary(ctx context.Context, from, to time.Time) ([]domainRepo.SalesSummaryRow, error) {
	var results []domainRepo.SalesSummaryRow

	err := conn(ctx, r.db).Raw(`
		SELECT
			invoice_type,
			COUNT(*) AS count,
			COALESCE(SUM(taxable_amount), 0) AS taxable_amount,
			COALESCE(SUM(total_gst), 0) AS total_gst,
			COALESCE(SUM(grand_total), 0) AS grand_total,
			COALESCE(SUM(paid_amount), 0) AS paid_amount,
			COALESCE(SUM(balance), 0) AS balance
		FROM sales_transactions
		WHERE deleted_at IS NULL
			AND status = ?
			AND invoice_date >= ? AND invoice_date < ?
		GROUP BY invoice_type
		ORDER BY invoice_type
	`, enum.PostingStatusPosted, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepository) StockMovementSummary(ctx context.Context, from, to time.Time) ([]domainRepo.StockMovementRow, error) {
	var results []domainRepo.StockMovementRow

	err := conn(ctx, r.db).Raw(`
		SELECT
			i.id AS item_id,
			i.code AS item_code,
			i.name AS item_name,
			COALESCE(SUM(CASE WHEN st.kind = ? THEN st.quantity ELSE 0 END), 0) AS qty_in,
			COALESCE(SUM(CASE WHEN st.kind = ? THEN st.quantity ELSE 0 END), 0) AS qty_out
		FROM stock_transactions st
		JOIN items i ON i.id = st.item_id
		WHERE st.transaction_date >= ? AND st.transaction_date < ?
		GROUP BY i.id, i.code, i.name
		ORDER BY i.code
	`, enum.StockIn, enum.StockOut, from, to).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
