package calc

import "github.com/shopspring/decimal"

func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// GrossAmount rounds to whole currency units, the precision the payment
// processor accepts.
func GrossAmount(total decimal.Decimal) int64 {
	return total.Round(0).IntPart()
}
