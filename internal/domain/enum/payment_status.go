package enum

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from paid amount against total due
type PaymentStatus int

const (
	PaymentStatusUnpaid  PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
	PaymentStatusPaid    PaymentStatus = 2
)

// DerivePaymentStatus returns Paid when paid covers due, Partial for any positive shortfall, else Unpaid
func DerivePaymentStatus(paid, due decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(due):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPaid:
		return "Paid"
	case PaymentStatusPartial:
		return "Partial"
	default:
		return "Unpaid"
	}
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Paid":
		*s = PaymentStatusPaid
	case "Partial":
		*s = PaymentStatusPartial
	default:
		*s = PaymentStatusUnpaid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}

// ParsePaymentStatus maps Unpaid, Partial or Paid to its status
func ParsePaymentStatus(str string) (PaymentStatus, bool) {
	switch str {
	case "Unpaid":
		return PaymentStatusUnpaid, true
	case "Partial":
		return PaymentStatusPartial, true
	case "Paid":
		return PaymentStatusPaid, true
	}
	return PaymentStatusUnpaid, false
}
