package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/ir"
)

// recordTrade handles ir.RecordTrade.
func (p *Processor) recordTrade(ctx context.Context, programID solana.PublicKey, accounts []*AccountInfo, ins ir.RecordTrade) error {
	iter := newAccountIter(accounts)
	user, err := iter.Next("signer")
	if err != nil {
		return err
	}
	storage, err := iter.Next("record storage")
	if err != nil {
		return err
	}

	if err := requireSigner(user); err != nil {
		return err
	}
	if err := requireRecordStorage(programID, storage); err != nil {
		return err
	}

	record := buildRecord(ins)
	if err := writeRecord(storage, record); err != nil {
		return err
	}

	p.emitter.TradeRecorded(ctx, record)
	return nil
}

// buildRecord copies the instruction's fields into a TradeRecord unchanged.
func buildRecord(ins ir.RecordTrade) ir.TradeRecord {
	return ir.TradeRecord{
		UserID:      ins.UserID,
		AssetSymbol: ins.AssetSymbol,
		TradeType:   ins.TradeType,
		Quantity:    ins.Quantity,
		Price:       ins.Price,
		Timestamp:   ins.Timestamp,
	}
}

// writeRecord encodes r into a local buffer and copies it to the start of
// the account's data only once the full size is known to fit. Bytes past the
// encoded length are left as they were.
func writeRecord(storage *AccountInfo, r ir.TradeRecord) error {
	encoded, err := ir.MarshalRecord(r)
	if err != nil {
		return newError(ErrCodeAccountDataTooSmall, "record cannot be encoded", err)
	}
	if len(encoded) > len(storage.Data) {
		return newError(ErrCodeAccountDataTooSmall,
			fmt.Sprintf("record needs %d bytes, account %s holds %d", len(encoded), storage.Key, len(storage.Data)), nil)
	}
	copy(storage.Data, encoded)
	return nil
}
