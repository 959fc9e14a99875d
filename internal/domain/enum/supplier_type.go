package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SupplierType classifies who the cooperative buys from
type SupplierType string

const (
	SupplierTypeMilkProducer SupplierType = "milk_producer"
	SupplierTypeFeedVendor   SupplierType = "feed_vendor"
	SupplierTypeDistributor  SupplierType = "distributor"
)

func (t SupplierType) String() string {
	return string(t)
}

func (t SupplierType) IsValid() bool {
	switch t {
	case SupplierTypeMilkProducer, SupplierTypeFeedVendor, SupplierTypeDistributor:
		return true
	}
	return false
}

func (t SupplierType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *SupplierType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = SupplierType(str)
	return nil
}

func (t SupplierType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *SupplierType) Scan(value interface{}) error {
	if value == nil {
		*t = SupplierTypeMilkProducer
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = SupplierType(v)
	case []byte:
		*t = SupplierType(string(v))
	}
	return nil
}
