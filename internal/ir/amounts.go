package ir

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Fixed-point scales of the stored integers.
const (
	QuantityScale = 8
	PriceScale    = 2
)

var (
	ErrNegativeAmount  = errors.New("ir: amount must not be negative")
	ErrAmountPrecision = errors.New("ir: amount has more decimal places than its scale")
	ErrAmountOverflow  = errors.New("ir: amount does not fit in u64 after scaling")
)

// QuantityDecimal is the human quantity (Quantity / 1e8).
func (r TradeRecord) QuantityDecimal() decimal.Decimal {
	return unscale(r.Quantity, QuantityScale)
}

// PriceDecimal is the human price (Price / 1e2).
func (r TradeRecord) PriceDecimal() decimal.Decimal {
	return unscale(r.Price, PriceScale)
}

// ScaleQuantity converts a human quantity such as "1.5" into the stored
// ×1e8 integer.
func ScaleQuantity(d decimal.Decimal) (uint64, error) {
	v, err := scale(d, QuantityScale)
	if err != nil {
		return 0, fmt.Errorf("quantity %s: %w", d, err)
	}
	return v, nil
}

// ScalePrice converts a human price such as "45000.25" into the stored
// ×1e2 integer.
func ScalePrice(d decimal.Decimal) (uint64, error) {
	v, err := scale(d, PriceScale)
	if err != nil {
		return 0, fmt.Errorf("price %s: %w", d, err)
	}
	return v, nil
}

func unscale(v uint64, places int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), -places)
}

func scale(d decimal.Decimal, places int32) (uint64, error) {
	if d.Sign() < 0 {
		return 0, ErrNegativeAmount
	}
	shifted := d.Shift(places)
	if !shifted.IsInteger() {
		return 0, ErrAmountPrecision
	}
	bi := shifted.BigInt()
	if !bi.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return bi.Uint64(), nil
}
