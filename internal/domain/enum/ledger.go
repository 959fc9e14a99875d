package enum

import "github.com/shopspring/decimal"

// LedgerType is the accounting class of a ledger
type LedgerType string

const (
	LedgerAsset     LedgerType = "Asset"
	LedgerLiability LedgerType = "Liability"
	LedgerIncome    LedgerType = "Income"
	LedgerExpense   LedgerType = "Expense"
)

func (t LedgerType) IsValid() bool {
	switch t {
	case LedgerAsset, LedgerLiability, LedgerIncome, LedgerExpense:
		return true
	}
	return false
}

// NormalSide is Dr for assets and expenses, Cr for liabilities and income
func (t LedgerType) NormalSide() BalanceSide {
	if t == LedgerAsset || t == LedgerExpense {
		return SideDebit
	}
	return SideCredit
}

// BalanceSide is the side on which a ledger's balance normally sits
type BalanceSide string

const (
	SideDebit  BalanceSide = "Dr"
	SideCredit BalanceSide = "Cr"
)

// Effect returns the change in current balance caused by posting debit and credit to a ledger on this side
func (s BalanceSide) Effect(debit, credit decimal.Decimal) decimal.Decimal {
	if s == SideCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// VoucherType is the kind of a double-entry voucher
type VoucherType string

const (
	VoucherSales    VoucherType = "Sales"
	VoucherPurchase VoucherType = "Purchase"
	VoucherReceipt  VoucherType = "Receipt"
	VoucherPayment  VoucherType = "Payment"
	VoucherJournal  VoucherType = "Journal"
)

func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherSales, VoucherPurchase, VoucherReceipt, VoucherPayment, VoucherJournal:
		return true
	}
	return false
}

// NumberPrefix is the period-scoped numbering prefix for vouchers of this type
func (t VoucherType) NumberPrefix() string {
	switch t {
	case VoucherSales:
		return "SV"
	case VoucherPurchase:
		return "PV"
	case VoucherReceipt:
		return "RV"
	case VoucherPayment:
		return "PY"
	default:
		return "JV"
	}
}

// PartyType names what a ledger or stock movement is linked to
type PartyType string

const (
	PartySupplier PartyType = "supplier"
	PartyCustomer PartyType = "customer"
	PartyCategory PartyType = "category"
	PartySystem   PartyType = "system"
)
