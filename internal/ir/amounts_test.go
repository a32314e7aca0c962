package ir

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecimals(t *testing.T) {
	r := TradeRecord{Quantity: 100000000, Price: 4500000}
	assert.Equal(t, "1", r.QuantityDecimal().String())
	assert.Equal(t, "45000", r.PriceDecimal().String())

	r = TradeRecord{Quantity: 150000001, Price: 4500025}
	assert.Equal(t, "1.50000001", r.QuantityDecimal().String())
	assert.Equal(t, "45000.25", r.PriceDecimal().String())
}

func TestScaleQuantity(t *testing.T) {
	q, err := ScaleQuantity(decimal.RequireFromString("1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(100000000), q)

	q, err = ScaleQuantity(decimal.RequireFromString("0.00000001"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), q)

	_, err = ScaleQuantity(decimal.RequireFromString("0.000000001"))
	assert.ErrorIs(t, err, ErrAmountPrecision)

	_, err = ScaleQuantity(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ScaleQuantity(decimal.RequireFromString("1000000000000"))
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestScalePrice(t *testing.T) {
	p, err := ScalePrice(decimal.RequireFromString("45000"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4500000), p)

	p, err = ScalePrice(decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.Equal(t, uint64(50), p)

	_, err = ScalePrice(decimal.RequireFromString("0.001"))
	assert.ErrorIs(t, err, ErrAmountPrecision)
}

func TestScaleRoundTripsThroughRecord(t *testing.T) {
	q, err := ScaleQuantity(decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	p, err := ScalePrice(decimal.RequireFromString("3100.5"))
	require.NoError(t, err)

	r := TradeRecord{Quantity: q, Price: p}
	assert.True(t, r.QuantityDecimal().Equal(decimal.RequireFromString("2.5")))
	assert.True(t, r.PriceDecimal().Equal(decimal.RequireFromString("3100.5")))
}
