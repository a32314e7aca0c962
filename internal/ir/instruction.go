package ir

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/tradeledger/internal/codec"
)

// InstructionTag is the leading discriminant byte of an encoded instruction.
type InstructionTag uint8

const (
	TagRecordTrade InstructionTag = 0
)

func (t InstructionTag) String() string {
	switch t {
	case TagRecordTrade:
		return "RecordTrade"
	default:
		return fmt.Sprintf("InstructionTag(%d)", uint8(t))
	}
}

// Instruction is the closed set of commands the program accepts.
//
// New variants get a tag constant, a struct implementing this interface, and
// a case in DecodeInstruction. The dispatcher's type switch then fails to
// handle them until a handler is added, and its default branch rejects them
// the same way as an unknown tag.
type Instruction interface {
	Tag() InstructionTag
	encode(enc *codec.Encoder) error
}

// RecordTrade asks the program to write one TradeRecord into the storage
// account. Accounts expected:
//
//	0. [signer]   the participant placing the trade
//	1. [writable] the record-storage account
type RecordTrade struct {
	UserID      uuid.UUID `json:"user_id"`
	AssetSymbol string    `json:"asset_symbol"`
	TradeType   TradeType `json:"trade_type"`
	Quantity    uint64    `json:"quantity"`
	Price       uint64    `json:"price"`
	Timestamp   int64     `json:"timestamp"`
}

func (RecordTrade) Tag() InstructionTag { return TagRecordTrade }

func (r RecordTrade) encode(enc *codec.Encoder) error {
	enc.U8(uint8(TagRecordTrade))
	return TradeRecord(r).encodeTo(enc)
}
