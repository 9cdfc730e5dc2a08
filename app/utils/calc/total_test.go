package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.RequireFromString("19.99"), 3)
	assert.True(t, got.Equal(decimal.RequireFromString("59.97")), got.String())
	assert.True(t, LineTotal(decimal.NewFromInt(5), 0).IsZero())
}

func TestGrossAmount(t *testing.T) {
	assert.Equal(t, int64(60), GrossAmount(decimal.RequireFromString("59.97")))
	assert.Equal(t, int64(59), GrossAmount(decimal.RequireFromString("59.49")))
	assert.Equal(t, int64(150000), GrossAmount(decimal.NewFromInt(150000)))
}
