package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Money formats amounts for receipts and order summaries.
type Money struct {
	ac *accounting.Accounting
}

// NewMoney defaults to Rupiah notation: "Rp 1.250.000".
func NewMoney(symbol string, precision int) *Money {
	if symbol == "" {
		symbol = "Rp "
	}
	return &Money{ac: &accounting.Accounting{
		Symbol:    symbol,
		Precision: precision,
		Thousand:  ".",
		Decimal:   ",",
	}}
}

func (m *Money) Format(amount decimal.Decimal) string {
	return m.ac.FormatMoney(amount)
}
