package ir

import (
	"errors"
	"fmt"

	"github.com/roach88/tradeledger/internal/codec"
)

var (
	ErrUnknownInstruction = fmt.Errorf("ir: unknown instruction tag: %w", codec.ErrInvalidDiscriminant)
	ErrInvalidTradeType   = fmt.Errorf("ir: invalid trade type: %w", codec.ErrInvalidDiscriminant)
	ErrEmptyInstruction   = errors.New("ir: empty instruction data")
)

// EncodedSize is the exact number of bytes MarshalRecord produces for r.
func (r TradeRecord) EncodedSize() int {
	return UserIDSize +
		codec.StringSize(r.AssetSymbol) +
		codec.SizeU8 +
		codec.SizeU64 +
		codec.SizeU64 +
		codec.SizeI64
}

func (r TradeRecord) encodeTo(enc *codec.Encoder) error {
	enc.Fixed(r.UserID[:])
	if err := enc.String(r.AssetSymbol); err != nil {
		return fmt.Errorf("asset_symbol: %w", err)
	}
	enc.U8(uint8(r.TradeType))
	enc.U64(r.Quantity)
	enc.U64(r.Price)
	enc.I64(r.Timestamp)
	return nil
}

// decodeTradeFields reads the six trade fields in declared order.
func decodeTradeFields(dec *codec.Decoder) (TradeRecord, error) {
	var r TradeRecord
	if err := dec.FixedInto(r.UserID[:]); err != nil {
		return TradeRecord{}, fmt.Errorf("user_id: %w", err)
	}

	symbol, err := dec.String()
	if err != nil {
		return TradeRecord{}, fmt.Errorf("asset_symbol: %w", err)
	}
	r.AssetSymbol = symbol

	side, err := dec.U8()
	if err != nil {
		return TradeRecord{}, fmt.Errorf("trade_type: %w", err)
	}
	r.TradeType = TradeType(side)
	if !r.TradeType.Valid() {
		return TradeRecord{}, fmt.Errorf("trade_type: %w: %d", ErrInvalidTradeType, side)
	}

	if r.Quantity, err = dec.U64(); err != nil {
		return TradeRecord{}, fmt.Errorf("quantity: %w", err)
	}
	if r.Price, err = dec.U64(); err != nil {
		return TradeRecord{}, fmt.Errorf("price: %w", err)
	}
	if r.Timestamp, err = dec.I64(); err != nil {
		return TradeRecord{}, fmt.Errorf("timestamp: %w", err)
	}
	return r, nil
}

// MarshalRecord returns the canonical encoding of r (the instruction layout
// without the leading tag).
func MarshalRecord(r TradeRecord) ([]byte, error) {
	enc := codec.NewEncoder(r.EncodedSize())
	if err := r.encodeTo(enc); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return enc.Bytes(), nil
}

// UnmarshalRecord decodes exactly one record; data must not carry extra bytes.
func UnmarshalRecord(data []byte) (TradeRecord, error) {
	dec := codec.NewDecoder(data)
	r, err := decodeTradeFields(dec)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	if err := dec.Finish(); err != nil {
		return TradeRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}

// DecodeRecordPrefix decodes a record from the leading bytes of an account
// buffer and reports how many bytes it occupied. Bytes after the record are
// ignored; account buffers are fixed-capacity and usually longer than the
// record they hold.
func DecodeRecordPrefix(data []byte) (TradeRecord, int, error) {
	dec := codec.NewDecoder(data)
	r, err := decodeTradeFields(dec)
	if err != nil {
		return TradeRecord{}, 0, fmt.Errorf("decode record: %w", err)
	}
	return r, dec.Offset(), nil
}

// EncodeInstruction returns the wire bytes for ins.
func EncodeInstruction(ins Instruction) ([]byte, error) {
	if ins == nil {
		return nil, fmt.Errorf("encode instruction: nil instruction")
	}
	enc := codec.NewEncoder(64)
	if err := ins.encode(enc); err != nil {
		return nil, fmt.Errorf("encode instruction %s: %w", ins.Tag(), err)
	}
	return enc.Bytes(), nil
}

// DecodeInstruction parses wire bytes into an Instruction.
//
// The tag is read first; unknown tags fail before any field is touched. All
// input must be consumed. Decoding is pure and never panics on malformed
// input.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInstruction
	}
	dec := codec.NewDecoder(data)
	raw, err := dec.U8()
	if err != nil {
		return nil, fmt.Errorf("decode instruction tag: %w", err)
	}

	var ins Instruction
	switch tag := InstructionTag(raw); tag {
	case TagRecordTrade:
		r, err := decodeTradeFields(dec)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", tag, err)
		}
		ins = RecordTrade(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, raw)
	}

	if err := dec.Finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ins.Tag(), err)
	}
	return ins, nil
}
