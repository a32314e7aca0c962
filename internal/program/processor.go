package program

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/ir"
)

// Processor decodes and dispatches instructions. The zero value is not
// usable; construct one with NewProcessor.
type Processor struct {
	emitter *Emitter
}

// NewProcessor returns a Processor whose trace lines go to logger
// (slog.Default() when nil).
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{emitter: NewEmitter(logger)}
}

// Process runs one call: decode, dispatch to the variant's handler, and
// return the handler's result.
func (p *Processor) Process(ctx context.Context, programID solana.PublicKey, accounts []*AccountInfo, data []byte) error {
	ins, err := ir.DecodeInstruction(data)
	if err != nil {
		return newError(ErrCodeInvalidInstructionData, "cannot decode instruction", err)
	}

	p.emitter.Instruction(ins.Tag())

	switch ins := ins.(type) {
	case ir.RecordTrade:
		return p.recordTrade(ctx, programID, accounts, ins)
	default:
		return newError(ErrCodeInvalidInstructionData,
			fmt.Sprintf("no handler for instruction %s", ins.Tag()), nil)
	}
}
