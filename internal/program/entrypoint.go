package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// ProcessInstruction is the program's entry point. The host calls it once per
// instruction with the executing program's identity, the ordered account
// handles, and the raw instruction bytes.
//
// Accounts for RecordTrade:
//
//	0. [signer]   participant placing the trade
//	1. [writable] record storage, owned by programID
func ProcessInstruction(programID solana.PublicKey, accounts []*AccountInfo, data []byte) error {
	return NewProcessor(nil).Process(context.Background(), programID, accounts, data)
}

// Entrypoint is the signature the host invokes. ProcessInstruction and
// (*Processor).Entrypoint both satisfy it.
type Entrypoint func(programID solana.PublicKey, accounts []*AccountInfo, data []byte) error

// Entrypoint adapts p to the host's call signature using ctx for logging.
func (p *Processor) Entrypoint(ctx context.Context) Entrypoint {
	return func(programID solana.PublicKey, accounts []*AccountInfo, data []byte) error {
		return p.Process(ctx, programID, accounts, data)
	}
}
