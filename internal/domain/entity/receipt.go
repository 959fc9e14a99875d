package entity

import "github.com/shopspring/decimal"

// ReceiptHeader is the business block printed at the top of every receipt
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
}

// ReceiptLine is one printed document line
type ReceiptLine struct {
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	FreeQuantity decimal.Decimal `json:"free_quantity"`
	Rate         decimal.Decimal `json:"rate"`
	GSTPercent   decimal.Decimal `json:"gst_percent"`
	Total        decimal.Decimal `json:"total"`
}

// Receipt is the printable form of a sale or a stock-in bill. It is composed at print time and
// never stored.
type Receipt struct {
	Header      ReceiptHeader   `json:"header"`
	Title       string          `json:"title"`
	Number      string          `json:"number"`
	Date        string          `json:"date"`
	Party       string          `json:"party,omitempty"`
	PaymentMode string          `json:"payment_mode,omitempty"`
	Lines       []ReceiptLine   `json:"lines"`
	Taxable     decimal.Decimal `json:"taxable"`
	Discount    decimal.Decimal `json:"discount"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	RoundOff    decimal.Decimal `json:"round_off"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Paid        decimal.Decimal `json:"paid"`
	Balance     decimal.Decimal `json:"balance"`
}
