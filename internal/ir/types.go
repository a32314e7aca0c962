package ir

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserIDSize is the width of the opaque user identifier on the wire.
const UserIDSize = 16

// TradeType is the side of a trade. Its wire form is one discriminant byte.
type TradeType uint8

const (
	Buy  TradeType = 0
	Sell TradeType = 1
)

// Valid reports whether t is a defined enumerator.
func (t TradeType) Valid() bool {
	return t == Buy || t == Sell
}

func (t TradeType) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("TradeType(%d)", uint8(t))
	}
}

// MarshalText renders the side as "Buy" or "Sell" for JSON output.
func (t TradeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTradeType, uint8(t))
	}
	return []byte(t.String()), nil
}

// ParseTradeType accepts buy/sell in any case, or their one-letter forms.
func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "b":
		return Buy, nil
	case "sell", "s":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTradeType, s)
	}
}

// TradeRecord is the persisted entity written into a record-storage account.
type TradeRecord struct {
	UserID      uuid.UUID `json:"user_id"`
	AssetSymbol string    `json:"asset_symbol"`
	TradeType   TradeType `json:"trade_type"`
	Quantity    uint64    `json:"quantity"`  // scaled ×1e8
	Price       uint64    `json:"price"`     // scaled ×1e2
	Timestamp   int64     `json:"timestamp"` // unix seconds
}
