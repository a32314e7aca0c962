package ir

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeTypeValid(t *testing.T) {
	assert.True(t, Buy.Valid())
	assert.True(t, Sell.Valid())
	assert.False(t, TradeType(2).Valid())
	assert.False(t, TradeType(255).Valid())
}

func TestTradeTypeString(t *testing.T) {
	assert.Equal(t, "Buy", Buy.String())
	assert.Equal(t, "Sell", Sell.String())
	assert.Equal(t, "TradeType(7)", TradeType(7).String())
}

func TestParseTradeType(t *testing.T) {
	tests := []struct {
		in   string
		want TradeType
	}{
		{"buy", Buy},
		{"BUY", Buy},
		{" Buy ", Buy},
		{"b", Buy},
		{"sell", Sell},
		{"S", Sell},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTradeType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTradeType("hold")
	assert.ErrorIs(t, err, ErrInvalidTradeType)
}

func TestTradeRecordJSON(t *testing.T) {
	r := TradeRecord{
		UserID:      uuid.UUID{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		AssetSymbol: "BTC",
		TradeType:   Sell,
		Quantity:    100000000,
		Price:       4500000,
		Timestamp:   1234567890,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user_id": "01010101-0101-0101-0101-010101010101",
		"asset_symbol": "BTC",
		"trade_type": "Sell",
		"quantity": 100000000,
		"price": 4500000,
		"timestamp": 1234567890
	}`, string(data))
}

func TestTradeTypeMarshalTextRejectsUndefined(t *testing.T) {
	_, err := TradeType(9).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidTradeType)
}

func TestInstructionTagString(t *testing.T) {
	assert.Equal(t, "RecordTrade", TagRecordTrade.String())
	assert.Equal(t, "InstructionTag(3)", InstructionTag(3).String())
	assert.Equal(t, TagRecordTrade, RecordTrade{}.Tag())
}
