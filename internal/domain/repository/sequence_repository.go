package repository

import "context"

// SequenceTarget names the column that holds a family of generated identifiers
type SequenceTarget struct {
	Table  string
	Column string
}

var (
	ItemCodes       = SequenceTarget{Table: "items", Column: "code"}
	SupplierCodes   = SequenceTarget{Table: "suppliers", Column: "supplier_code"}
	CustomerCodes   = SequenceTarget{Table: "customers", Column: "customer_code"}
	InvoiceNumbers  = SequenceTarget{Table: "sales_transactions", Column: "invoice_number"}
	PurchaseNumbers = SequenceTarget{Table: "purchases", Column: "purchase_no"}
	VoucherNumbers  = SequenceTarget{Table: "vouchers", Column: "voucher_number"}
)

// SequenceRepository reads the identifiers already issued for a target, soft-deleted rows included
type SequenceRepository interface {
	// ListByPrefix returns up to limit values starting with prefix, longest and highest first
	ListByPrefix(ctx context.Context, target SequenceTarget, prefix string, limit int) ([]string, error)
	Exists(ctx context.Context, target SequenceTarget, value string) (bool, error)
}
