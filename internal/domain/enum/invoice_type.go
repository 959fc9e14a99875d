package enum

// InvoiceType is the document type of a sales transaction
type InvoiceType string

const (
	InvoiceSale            InvoiceType = "Sale"
	InvoiceSaleReturn      InvoiceType = "Sale Return"
	InvoiceEstimate        InvoiceType = "Estimate"
	InvoiceDeliveryChallan InvoiceType = "Delivery Challan"
	InvoiceProforma        InvoiceType = "Proforma"
)

func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceSale, InvoiceSaleReturn, InvoiceEstimate, InvoiceDeliveryChallan, InvoiceProforma:
		return true
	}
	return false
}

// AffectsStock is true only for Sale and Sale Return
func (t InvoiceType) AffectsStock() bool {
	return t == InvoiceSale || t == InvoiceSaleReturn
}

// StockKind is the movement direction for stock-affecting types
func (t InvoiceType) StockKind() TransactionKind {
	if t == InvoiceSaleReturn {
		return StockIn
	}
	return StockOut
}

// StockReference is the reference type recorded on the movements of this document type
func (t InvoiceType) StockReference() ReferenceType {
	if t == InvoiceSaleReturn {
		return ReferenceReturn
	}
	return ReferenceSale
}

// NumberPrefix is the period-scoped numbering prefix for this document type
func (t InvoiceType) NumberPrefix() string {
	switch t {
	case InvoiceSaleReturn:
		return "SR"
	case InvoiceEstimate:
		return "EST"
	case InvoiceDeliveryChallan:
		return "DC"
	case InvoiceProforma:
		return "PRO"
	default:
		return "INV"
	}
}
