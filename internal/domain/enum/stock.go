package enum

import "github.com/shopspring/decimal"

// TransactionKind is the direction of a stock movement
type TransactionKind string

const (
	StockIn  TransactionKind = "Stock In"
	StockOut TransactionKind = "Stock Out"
)

func (k TransactionKind) IsValid() bool {
	return k == StockIn || k == StockOut
}

// Signed returns qty as a balance delta: positive for Stock In, negative for Stock Out
func (k TransactionKind) Signed(qty decimal.Decimal) decimal.Decimal {
	if k == StockOut {
		return qty.Neg()
	}
	return qty
}

// ReferenceType names the business event that caused a stock movement
type ReferenceType string

const (
	ReferencePurchase   ReferenceType = "Purchase"
	ReferenceSale       ReferenceType = "Sale"
	ReferenceOpening    ReferenceType = "Opening"
	ReferenceAdjustment ReferenceType = "Adjustment"
	ReferenceReturn     ReferenceType = "Return"
	ReferenceTransfer   ReferenceType = "Transfer"
)

func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferencePurchase, ReferenceSale, ReferenceOpening, ReferenceAdjustment, ReferenceReturn, ReferenceTransfer:
		return true
	}
	return false
}

// IsDocumentOwned reports whether rows of this reference belong to a sale or purchase document
// and must be changed through that document
func (r ReferenceType) IsDocumentOwned() bool {
	return r == ReferencePurchase || r == ReferenceSale || r == ReferenceReturn
}
