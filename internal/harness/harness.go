package harness

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/engine"
	"github.com/roach88/tradeledger/internal/ir"
	"github.com/roach88/tradeledger/internal/program"
	"github.com/roach88/tradeledger/internal/store"
	"github.com/roach88/tradeledger/internal/testutil"
)

// Harness runs a scenario against a real engine with deterministic call ids.
type Harness struct {
	store     *store.Store
	engine    *engine.Engine
	programID solana.PublicKey
	logs      *bytes.Buffer
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Create fresh in-memory database and engine
//  2. Create the declared accounts
//  3. Execute calls in order, checking expect clauses
//  4. Snapshot final account data
//  5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	programID := testutil.ProgramID()
	if scenario.ProgramID != "" {
		key, err := solana.PublicKeyFromBase58(scenario.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("program_id: %w", err)
		}
		programID = key
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logs := &bytes.Buffer{}
	eng, err := engine.New(ctx, st, programID,
		program.NewProcessor(traceLogger(logs)),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("call")),
		engine.WithLogger(testutil.DiscardLogger()),
	)
	if err != nil {
		return nil, err
	}

	h := &Harness{store: st, engine: eng, programID: programID, logs: logs}
	result := NewResult()

	if err := h.createAccounts(ctx, scenario.Accounts, result); err != nil {
		return nil, err
	}
	if err := h.executeCalls(ctx, scenario.Calls, result); err != nil {
		return nil, err
	}
	if err := h.snapshotAccounts(ctx, scenario.Accounts, result); err != nil {
		return nil, err
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return result, nil
}

func (h *Harness) createAccounts(ctx context.Context, accounts []AccountSetup, result *Result) error {
	for _, acc := range accounts {
		data := make([]byte, acc.Capacity)
		if acc.Fill != "" {
			fill, err := parseFill(acc.Fill)
			if err != nil {
				return fmt.Errorf("account %s: %w", acc.Name, err)
			}
			for i := range data {
				data[i] = fill
			}
		}

		if _, err := h.engine.SeedAccount(ctx, testutil.Key(acc.Name), h.resolveOwner(acc.Owner), data); err != nil {
			return fmt.Errorf("account %s: %w", acc.Name, err)
		}
		result.initial[acc.Name] = data
	}
	return nil
}

func (h *Harness) resolveOwner(owner string) solana.PublicKey {
	switch owner {
	case "", "program":
		return h.programID
	case "system":
		return solana.SystemProgramID
	default:
		return testutil.Key(owner)
	}
}

func (h *Harness) executeCalls(ctx context.Context, calls []CallStep, result *Result) error {
	for i, step := range calls {
		data, err := step.instructionData()
		if err != nil {
			return fmt.Errorf("calls[%d]: %w", i, err)
		}

		metas := make([]engine.AccountMeta, len(step.Accounts))
		for j, ref := range step.Accounts {
			metas[j] = engine.AccountMeta{
				Pubkey:     testutil.Key(ref.Name),
				IsSigner:   ref.Signer,
				IsWritable: ref.Writable,
			}
		}

		h.logs.Reset()
		receipt, err := h.engine.Invoke(ctx, engine.Invocation{Accounts: metas, Data: data})
		if err != nil {
			return fmt.Errorf("calls[%d] (%s): %w", i, step.Name, err)
		}

		ev := TraceEvent{
			Seq:          receipt.Seq,
			CallID:       receipt.CallID,
			Call:         step.Name,
			Outcome:      string(receipt.Outcome),
			ErrorCode:    engine.ErrorCode(receipt.Err),
			RecordDigest: receipt.RecordDigest,
			Logs:         splitLines(h.logs.String()),
		}
		result.AddCall(ev)

		if step.Expect != nil {
			if msg := checkExpect(step.Expect, ev); msg != "" {
				result.AddError(fmt.Sprintf("calls[%d] (%s): %s", i, step.Name, msg))
			}
		}
	}
	return nil
}

func (h *Harness) snapshotAccounts(ctx context.Context, accounts []AccountSetup, result *Result) error {
	for _, acc := range accounts {
		stored, err := h.store.ReadAccount(ctx, testutil.Key(acc.Name))
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", acc.Name, err)
		}
		result.final[acc.Name] = stored.Data
		result.Accounts = append(result.Accounts, AccountState{
			Name: acc.Name,
			Data: hex.EncodeToString(stored.Data),
		})
	}
	return nil
}

func (step CallStep) instructionData() ([]byte, error) {
	if step.Data != nil {
		return hex.DecodeString(*step.Data)
	}
	r, err := step.RecordTrade.toRecord()
	if err != nil {
		return nil, err
	}
	return ir.EncodeInstruction(ir.RecordTrade(r))
}

func checkExpect(e *ExpectClause, ev TraceEvent) string {
	if ev.Outcome != e.Outcome {
		if ev.ErrorCode != "" {
			return fmt.Sprintf("expected outcome %s, got %s (%s)", e.Outcome, ev.Outcome, ev.ErrorCode)
		}
		return fmt.Sprintf("expected outcome %s, got %s", e.Outcome, ev.Outcome)
	}
	if e.Error != "" && ev.ErrorCode != e.Error {
		return fmt.Sprintf("expected error %s, got %s", e.Error, ev.ErrorCode)
	}
	return ""
}

// traceLogger captures the program's trace lines without timestamps so they
// can be compared against golden files.
func traceLogger(w *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
