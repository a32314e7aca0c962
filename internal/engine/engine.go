package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/ir"
	"github.com/roach88/tradeledger/internal/program"
	"github.com/roach88/tradeledger/internal/store"
)

// Program is what the engine hosts. *program.Processor implements it.
type Program interface {
	Process(ctx context.Context, programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error
}

// ProgramFunc adapts a plain function to Program.
type ProgramFunc func(ctx context.Context, programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error

// Process calls f.
func (f ProgramFunc) Process(ctx context.Context, programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	return f(ctx, programID, accounts, data)
}

// AccountMeta is one entry of an invocation's ordered account list.
type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Invocation is a single instruction submitted to the hosted program.
type Invocation struct {
	Accounts []AccountMeta
	Data     []byte
}

// Receipt describes how a call ended. Err is the program's (or a host
// guard's) error; it is nil when Outcome is store.OutcomeOK.
type Receipt struct {
	CallID       string
	Seq          int64
	Outcome      store.Outcome
	Err          error
	RecordDigest string
	Written      []solana.PublicKey
}

// Engine runs one program against the account ledger in a store.
//
// Each call sees copies of the stored account data. Changes are committed
// together with the call-log row only if the program and the host guards
// accept the call; otherwise only the call-log row is written.
//
// Thread-safety: Invoke and SeedAccount are serialized by an internal
// mutex, so every call has exclusive access to the accounts it names.
type Engine struct {
	mu        sync.Mutex
	store     *store.Store
	clock     *Clock
	ids       CallIDGenerator
	program   Program
	programID solana.PublicKey
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the default UUIDv7 call ids.
func WithIDGenerator(g CallIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger for call outcomes (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine hosting prog under programID. The logical clock
// resumes after the highest seq already in st.
func New(ctx context.Context, st *store.Store, programID solana.PublicKey, prog Program, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, errors.New("engine: store is required")
	}
	if prog == nil {
		return nil, errors.New("engine: program is required")
	}

	last, err := st.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: resume clock: %w", err)
	}

	e := &Engine{
		store:     st,
		clock:     NewClockAt(last),
		ids:       UUIDv7Generator{},
		program:   prog,
		programID: programID,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ProgramID returns the identity the hosted program runs under.
func (e *Engine) ProgramID() solana.PublicKey {
	return e.programID
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// NewAccountKey returns a fresh random public key for CreateAccount.
func NewAccountKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

// CreateAccount allocates a zeroed account of capacity bytes owned by owner.
func (e *Engine) CreateAccount(ctx context.Context, key, owner solana.PublicKey, capacity int) (store.Account, error) {
	if capacity < 0 {
		return store.Account{}, fmt.Errorf("create account: negative capacity %d", capacity)
	}
	return e.SeedAccount(ctx, key, owner, make([]byte, capacity))
}

// SeedAccount creates an account whose buffer starts as a copy of data.
func (e *Engine) SeedAccount(ctx context.Context, key, owner solana.PublicKey, data []byte) (store.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc := store.Account{
		Key:        key,
		Owner:      owner,
		Data:       bytes.Clone(data),
		CreatedSeq: e.clock.Next(),
	}
	if acc.Data == nil {
		acc.Data = []byte{}
	}
	acc.Seq = acc.CreatedSeq
	if err := e.store.CreateAccount(ctx, acc); err != nil {
		return store.Account{}, err
	}

	e.logger.InfoContext(ctx, "account created",
		"pubkey", key.String(),
		"owner", owner.String(),
		"capacity", len(acc.Data),
		"seq", acc.Seq,
	)
	return acc, nil
}

// Invoke runs inv against the hosted program and records the outcome.
//
// The returned error is reserved for host failures such as store I/O; a
// rejected call returns a nil error and a Receipt whose Err is set.
func (e *Engine) Invoke(ctx context.Context, inv Invocation) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loaded, err := e.loadAccounts(ctx, inv.Accounts)
	if err != nil {
		return Receipt{}, err
	}

	var (
		writes  []store.Account
		callErr = checkDuplicates(inv.Accounts)
	)
	if callErr == nil {
		infos := make([]*program.AccountInfo, len(inv.Accounts))
		for i, meta := range inv.Accounts {
			infos[i] = &program.AccountInfo{
				Key:        meta.Pubkey,
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
				Owner:      loaded[i].Owner,
				Data:       bytes.Clone(loaded[i].Data),
			}
		}

		callErr = e.program.Process(ctx, e.programID, infos, inv.Data)
		if callErr == nil {
			writes, callErr = e.collectWrites(inv.Accounts, loaded, infos)
		}
	}

	receipt := Receipt{
		CallID:  e.ids.Generate(),
		Seq:     e.clock.Next(),
		Outcome: store.OutcomeOK,
	}
	if callErr != nil {
		receipt.Outcome = store.OutcomeError
		receipt.Err = callErr
		writes = nil
	}
	for _, w := range writes {
		receipt.Written = append(receipt.Written, w.Key)
		if receipt.RecordDigest == "" {
			receipt.RecordDigest = recordDigest(w.Data)
		}
	}

	call := store.Call{
		ID:                receipt.CallID,
		Seq:               receipt.Seq,
		ProgramID:         e.programID,
		Instruction:       bytes.Clone(inv.Data),
		InstructionDigest: ir.InstructionDigest(inv.Data),
		Accounts:          callAccounts(inv.Accounts),
		Outcome:           receipt.Outcome,
		RecordDigest:      receipt.RecordDigest,
		ProgramVersion:    ir.ProgramVersion,
	}
	if callErr != nil {
		call.ErrorCode = ErrorCode(callErr)
		call.ErrorMessage = callErr.Error()
	}

	if err := e.store.CommitCall(ctx, call, writes); err != nil {
		return Receipt{}, fmt.Errorf("invoke: %w", err)
	}

	if callErr != nil {
		e.logger.WarnContext(ctx, "call failed",
			"call_id", receipt.CallID,
			"seq", receipt.Seq,
			"code", call.ErrorCode,
			"error", callErr,
		)
	} else {
		e.logger.InfoContext(ctx, "call committed",
			"call_id", receipt.CallID,
			"seq", receipt.Seq,
			"writes", len(writes),
			"record_digest", receipt.RecordDigest,
		)
	}
	return receipt, nil
}

// loadAccounts reads every referenced account. Keys the ledger has never seen
// are presented as empty, system-owned accounts.
func (e *Engine) loadAccounts(ctx context.Context, metas []AccountMeta) ([]store.Account, error) {
	loaded := make([]store.Account, len(metas))
	for i, meta := range metas {
		acc, err := e.store.ReadAccount(ctx, meta.Pubkey)
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			acc = store.Account{Key: meta.Pubkey, Owner: solana.SystemProgramID, Data: []byte{}}
		case err != nil:
			return nil, fmt.Errorf("invoke: %w", err)
		}
		loaded[i] = acc
	}
	return loaded, nil
}

// collectWrites compares each buffer with what was loaded and returns the
// accounts to commit. Only writable accounts owned by the program may change,
// and never in length.
func (e *Engine) collectWrites(metas []AccountMeta, loaded []store.Account, infos []*program.AccountInfo) ([]store.Account, error) {
	var writes []store.Account
	for i, info := range infos {
		before := loaded[i].Data
		if bytes.Equal(before, info.Data) {
			continue
		}

		key := metas[i].Pubkey.String()
		switch {
		case len(before) != len(info.Data):
			return nil, &RuntimeError{
				Code:    ErrCodeAccountDataSizeChanged,
				Message: fmt.Sprintf("data length changed from %d to %d", len(before), len(info.Data)),
				Account: key,
			}
		case !metas[i].IsWritable:
			return nil, &RuntimeError{
				Code:    ErrCodeReadonlyDataModified,
				Message: "program modified an account passed read-only",
				Account: key,
			}
		case !loaded[i].Owner.Equals(e.programID):
			return nil, &RuntimeError{
				Code:    ErrCodeExternalAccountDataModified,
				Message: fmt.Sprintf("program modified an account owned by %s", loaded[i].Owner),
				Account: key,
			}
		}

		writes = append(writes, store.Account{
			Key:   metas[i].Pubkey,
			Owner: loaded[i].Owner,
			Data:  bytes.Clone(info.Data),
		})
	}
	return writes, nil
}

func checkDuplicates(metas []AccountMeta) error {
	seen := make(map[solana.PublicKey]struct{}, len(metas))
	for _, meta := range metas {
		if _, ok := seen[meta.Pubkey]; ok {
			return &RuntimeError{
				Code:    ErrCodeDuplicateAccount,
				Message: "account passed more than once",
				Account: meta.Pubkey.String(),
			}
		}
		seen[meta.Pubkey] = struct{}{}
	}
	return nil
}

func callAccounts(metas []AccountMeta) []store.CallAccount {
	out := make([]store.CallAccount, len(metas))
	for i, meta := range metas {
		out[i] = store.CallAccount{
			Pubkey:     meta.Pubkey.String(),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
	}
	return out
}

// recordDigest hashes the trade record at the start of data, or returns ""
// when data does not begin with one.
func recordDigest(data []byte) string {
	r, _, err := ir.DecodeRecordPrefix(data)
	if err != nil {
		return ""
	}
	d, err := ir.RecordDigest(r)
	if err != nil {
		return ""
	}
	return d
}
