package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/ir"
	"github.com/roach88/tradeledger/internal/store"
)

// Finding is one inconsistency Replay found in the ledger.
type Finding struct {
	Seq     int64  `json:"seq"`
	CallID  string `json:"call_id,omitempty"`
	Account string `json:"account,omitempty"`
	Problem string `json:"problem"`
}

// ReplayReport summarizes a Replay pass.
type ReplayReport struct {
	Calls     int       `json:"calls"`
	Committed int       `json:"committed"`
	Rejected  int       `json:"rejected"`
	Accounts  int       `json:"accounts"`
	Findings  []Finding `json:"findings"`
}

// OK reports whether the pass found nothing.
func (r ReplayReport) OK() bool {
	return len(r.Findings) == 0
}

// Replay walks the call log in seq order, re-decodes every logged
// instruction, and checks that the ledger agrees with it:
//
//   - each instruction_digest matches its stored bytes
//   - committed calls carry the digest of the record their instruction holds
//   - rejected calls carry an error code and no record digest
//   - every record-storage account still begins with the record of the
//     last committed call that wrote it
//
// Replay only reads; the store is never modified.
func Replay(ctx context.Context, st *store.Store) (ReplayReport, error) {
	calls, err := st.ReadCalls(ctx)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}

	report := ReplayReport{Calls: len(calls), Findings: []Finding{}}
	lastWrite := make(map[solana.PublicKey]store.Call)
	var order []solana.PublicKey

	for _, c := range calls {
		add := func(format string, args ...any) {
			report.Findings = append(report.Findings, Finding{
				Seq:     c.Seq,
				CallID:  c.ID,
				Problem: fmt.Sprintf(format, args...),
			})
		}

		if got := ir.InstructionDigest(c.Instruction); got != c.InstructionDigest {
			add("instruction digest %s does not match stored bytes (%s)", c.InstructionDigest, got)
		}

		if c.Outcome == store.OutcomeError {
			report.Rejected++
			if c.ErrorCode == "" {
				add("rejected call has no error code")
			}
			if c.RecordDigest != "" {
				add("rejected call carries record digest %s", c.RecordDigest)
			}
			continue
		}

		report.Committed++
		if c.ErrorCode != "" {
			add("committed call has error code %s", c.ErrorCode)
		}
		if c.RecordDigest == "" {
			// Accepted but nothing changed: the storage already held this record.
			continue
		}

		want, err := loggedRecordDigest(c.Instruction)
		if err != nil {
			add("logged instruction does not decode: %v", err)
			continue
		}
		if want != c.RecordDigest {
			add("record digest %s does not match instruction (%s)", c.RecordDigest, want)
		}

		// RecordTrade writes its record into account 1.
		if len(c.Accounts) < 2 || !c.Accounts[1].IsWritable {
			add("committed call names no writable record storage")
			continue
		}
		key, err := solana.PublicKeyFromBase58(c.Accounts[1].Pubkey)
		if err != nil {
			add("record storage %q is not a valid key", c.Accounts[1].Pubkey)
			continue
		}
		if _, seen := lastWrite[key]; !seen {
			order = append(order, key)
		}
		lastWrite[key] = c
	}

	for _, key := range order {
		c := lastWrite[key]
		problem, err := checkAccountRecord(ctx, st, key, c.RecordDigest)
		if err != nil {
			return ReplayReport{}, fmt.Errorf("replay: %w", err)
		}
		report.Accounts++
		if problem != "" {
			report.Findings = append(report.Findings, Finding{
				Seq:     c.Seq,
				CallID:  c.ID,
				Account: key.String(),
				Problem: problem,
			})
		}
	}

	return report, nil
}

func loggedRecordDigest(data []byte) (string, error) {
	ins, err := ir.DecodeInstruction(data)
	if err != nil {
		return "", err
	}
	rt, ok := ins.(ir.RecordTrade)
	if !ok {
		return "", fmt.Errorf("instruction %s writes no record", ins.Tag())
	}
	return ir.RecordDigest(ir.TradeRecord(rt))
}

// checkAccountRecord returns a description of how key's current data
// disagrees with digest, or "" when it agrees.
func checkAccountRecord(ctx context.Context, st *store.Store, key solana.PublicKey, digest string) (string, error) {
	acc, err := st.ReadAccount(ctx, key)
	if errors.Is(err, store.ErrAccountNotFound) {
		return "written account is missing from the ledger", nil
	}
	if err != nil {
		return "", err
	}

	got := recordDigest(acc.Data)
	switch {
	case got == "" && len(bytes.TrimLeft(acc.Data, "\x00")) == 0:
		return "written account is zeroed", nil
	case got == "":
		return "account data does not begin with a record", nil
	case got != digest:
		return fmt.Sprintf("account holds record %s, last committed call wrote %s", got, digest), nil
	}
	return "", nil
}
