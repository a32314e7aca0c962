package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tradeledger/internal/engine"
	"github.com/roach88/tradeledger/internal/ir"
	"github.com/roach88/tradeledger/internal/program"
	"github.com/roach88/tradeledger/internal/store"
	"github.com/roach88/tradeledger/internal/testutil"
)

func btcTrade() ir.RecordTrade {
	return ir.RecordTrade{
		UserID:      uuid.UUID{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		AssetSymbol: "BTC",
		TradeType:   ir.Buy,
		Quantity:    100000000,
		Price:       4500000,
		Timestamp:   1234567890,
	}
}

func encode(t *testing.T, ins ir.Instruction) []byte {
	t.Helper()
	data, err := ir.EncodeInstruction(ins)
	require.NoError(t, err)
	return data
}

type fixture struct {
	st      *store.Store
	eng     *engine.Engine
	user    solana.PublicKey
	storage solana.PublicKey
}

func newFixture(t *testing.T, prog engine.Program) *fixture {
	t.Helper()
	st := testutil.OpenStore(t)
	eng, err := engine.New(t.Context(), st, testutil.ProgramID(), prog,
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("call")),
		engine.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)

	f := &fixture{st: st, eng: eng, user: testutil.Key("user"), storage: testutil.Key("storage")}
	_, err = eng.CreateAccount(t.Context(), f.storage, testutil.ProgramID(), testutil.DefaultRecordCapacity)
	require.NoError(t, err)
	return f
}

func (f *fixture) recordTrade(t *testing.T, signed bool) engine.Invocation {
	return engine.Invocation{
		Accounts: []engine.AccountMeta{
			{Pubkey: f.user, IsSigner: signed},
			{Pubkey: f.storage, IsWritable: true},
		},
		Data: encode(t, btcTrade()),
	}
}

func (f *fixture) storageData(t *testing.T) []byte {
	t.Helper()
	acc, err := f.st.ReadAccount(t.Context(), f.storage)
	require.NoError(t, err)
	return acc.Data
}

func TestInvoke_CommitsRecord(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))

	receipt, err := f.eng.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)
	require.NoError(t, receipt.Err)
	assert.Equal(t, store.OutcomeOK, receipt.Outcome)
	assert.Equal(t, "call-0001", receipt.CallID)
	assert.Equal(t, int64(2), receipt.Seq, "account creation took seq 1")
	assert.Equal(t, []solana.PublicKey{f.storage}, receipt.Written)

	want := ir.TradeRecord(btcTrade())
	assert.Equal(t, ir.MustRecordDigest(want), receipt.RecordDigest)

	got, _, err := ir.DecodeRecordPrefix(f.storageData(t))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	call, err := f.st.ReadCall(t.Context(), receipt.CallID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeOK, call.Outcome)
	assert.Equal(t, ir.InstructionDigest(call.Instruction), call.InstructionDigest)
	assert.Equal(t, ir.ProgramVersion, call.ProgramVersion)
	assert.Equal(t, []store.CallAccount{
		{Pubkey: f.user.String(), IsSigner: true},
		{Pubkey: f.storage.String(), IsWritable: true},
	}, call.Accounts)
}

func TestInvoke_MissingSignatureIsLoggedNotCommitted(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))

	receipt, err := f.eng.Invoke(t.Context(), f.recordTrade(t, false))
	require.NoError(t, err, "program rejection is not a host error")
	assert.Equal(t, store.OutcomeError, receipt.Outcome)
	assert.ErrorIs(t, receipt.Err, program.ErrMissingRequiredSignature)
	assert.Empty(t, receipt.Written)
	assert.Empty(t, receipt.RecordDigest)

	assert.Equal(t, make([]byte, testutil.DefaultRecordCapacity), f.storageData(t))

	call, err := f.st.ReadCall(t.Context(), receipt.CallID)
	require.NoError(t, err)
	assert.Equal(t, "MissingRequiredSignature", call.ErrorCode)
	assert.Contains(t, call.ErrorMessage, "MissingRequiredSignature")
}

func TestInvoke_FailedProgramWritesAreDiscarded(t *testing.T) {
	prog := engine.ProgramFunc(func(_ context.Context, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		accounts[1].Data[0] = 0xFF
		return program.ErrInvalidInstructionData
	})
	f := newFixture(t, prog)

	receipt, err := f.eng.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)
	assert.ErrorIs(t, receipt.Err, program.ErrInvalidInstructionData)
	assert.Equal(t, make([]byte, testutil.DefaultRecordCapacity), f.storageData(t))
}

func TestInvoke_Guards(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(accounts []*program.AccountInfo)
		metas  func(f *fixture) []engine.AccountMeta
		code   engine.RuntimeErrorCode
	}{
		{
			name:   "readonly account modified",
			mutate: func(a []*program.AccountInfo) { a[1].Data[0] = 1 },
			metas: func(f *fixture) []engine.AccountMeta {
				return []engine.AccountMeta{{Pubkey: f.user, IsSigner: true}, {Pubkey: f.storage}}
			},
			code: engine.ErrCodeReadonlyDataModified,
		},
		{
			name:   "buffer resized",
			mutate: func(a []*program.AccountInfo) { a[1].Data = append(a[1].Data, 1) },
			code:   engine.ErrCodeAccountDataSizeChanged,
		},
		{
			name:   "unowned account modified",
			mutate: func(a []*program.AccountInfo) { a[0].Data[0] = 7 },
			metas: func(f *fixture) []engine.AccountMeta {
				return []engine.AccountMeta{
					{Pubkey: testutil.Key("foreign"), IsSigner: true, IsWritable: true},
					{Pubkey: f.storage, IsWritable: true},
				}
			},
			code: engine.ErrCodeExternalAccountDataModified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := engine.ProgramFunc(func(_ context.Context, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
				tt.mutate(accounts)
				return nil
			})
			f := newFixture(t, prog)
			_, err := f.eng.CreateAccount(t.Context(), testutil.Key("foreign"), solana.SystemProgramID, 8)
			require.NoError(t, err)

			inv := f.recordTrade(t, true)
			if tt.metas != nil {
				inv.Accounts = tt.metas(f)
			}

			receipt, err := f.eng.Invoke(t.Context(), inv)
			require.NoError(t, err)
			assert.True(t, engine.IsRuntimeError(receipt.Err, tt.code), "got %v", receipt.Err)
			assert.Equal(t, make([]byte, testutil.DefaultRecordCapacity), f.storageData(t))

			foreign, err := f.st.ReadAccount(t.Context(), testutil.Key("foreign"))
			require.NoError(t, err)
			assert.Equal(t, make([]byte, 8), foreign.Data)

			call, err := f.st.ReadCall(t.Context(), receipt.CallID)
			require.NoError(t, err)
			assert.Equal(t, string(tt.code), call.ErrorCode)
		})
	}
}

func TestInvoke_DuplicateAccountRejectedBeforeProgram(t *testing.T) {
	called := false
	prog := engine.ProgramFunc(func(context.Context, solana.PublicKey, []*program.AccountInfo, []byte) error {
		called = true
		return nil
	})
	f := newFixture(t, prog)

	inv := f.recordTrade(t, true)
	inv.Accounts = append(inv.Accounts, engine.AccountMeta{Pubkey: f.storage})

	receipt, err := f.eng.Invoke(t.Context(), inv)
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, engine.IsRuntimeError(receipt.Err, engine.ErrCodeDuplicateAccount))
	assert.Equal(t, "DuplicateAccount", engine.ErrorCode(receipt.Err))
}

func TestInvoke_UnknownAccountIsEmptyAndSystemOwned(t *testing.T) {
	var seen *program.AccountInfo
	prog := engine.ProgramFunc(func(_ context.Context, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		seen = accounts[0]
		return nil
	})
	f := newFixture(t, prog)

	receipt, err := f.eng.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)
	require.NoError(t, receipt.Err)
	require.NotNil(t, seen)
	assert.True(t, seen.Owner.Equals(solana.SystemProgramID))
	assert.Empty(t, seen.Data)
	assert.True(t, seen.IsSigner)

	_, err = f.st.ReadAccount(t.Context(), f.user)
	assert.ErrorIs(t, err, store.ErrAccountNotFound, "reading an account must not create it")
}

func TestInvoke_ProgramSeesCopies(t *testing.T) {
	var held []byte
	prog := engine.ProgramFunc(func(_ context.Context, _ solana.PublicKey, accounts []*program.AccountInfo, _ []byte) error {
		held = accounts[1].Data
		return errors.New("boom")
	})
	f := newFixture(t, prog)

	_, err := f.eng.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)

	held[0] = 0xEE
	assert.Equal(t, byte(0), f.storageData(t)[0])
}

func TestInvoke_LastWriteWins(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))

	first := btcTrade()
	first.AssetSymbol = "A-MUCH-LONGER-SYMBOL"
	inv := f.recordTrade(t, true)
	inv.Data = encode(t, first)
	_, err := f.eng.Invoke(t.Context(), inv)
	require.NoError(t, err)

	second := btcTrade()
	second.TradeType = ir.Sell
	inv.Data = encode(t, second)
	receipt, err := f.eng.Invoke(t.Context(), inv)
	require.NoError(t, err)
	require.NoError(t, receipt.Err)

	got, _, err := ir.DecodeRecordPrefix(f.storageData(t))
	require.NoError(t, err)
	assert.Equal(t, ir.TradeRecord(second), got)
}

func TestNew_ResumesClockFromStore(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))
	_, err := f.eng.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)

	reopened, err := engine.New(t.Context(), f.st, testutil.ProgramID(),
		program.NewProcessor(testutil.DiscardLogger()),
		engine.WithIDGenerator(engine.NewFixedGenerator("after-restart")),
		engine.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), reopened.Clock().Current())

	receipt, err := reopened.Invoke(t.Context(), f.recordTrade(t, true))
	require.NoError(t, err)
	assert.Equal(t, int64(3), receipt.Seq)
	assert.Equal(t, "after-restart", receipt.CallID)
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))

	_, err := f.eng.CreateAccount(t.Context(), f.storage, testutil.ProgramID(), 10)
	assert.ErrorIs(t, err, store.ErrAccountExists)

	_, err = f.eng.CreateAccount(t.Context(), engine.NewAccountKey(), testutil.ProgramID(), -1)
	assert.Error(t, err)

	key := engine.NewAccountKey()
	acc, err := f.eng.CreateAccount(t.Context(), key, solana.SystemProgramID, 0)
	require.NoError(t, err)
	assert.Empty(t, acc.Data)
	assert.True(t, acc.Key.Equals(key))
}

func TestNew_RequiresStoreAndProgram(t *testing.T) {
	_, err := engine.New(t.Context(), nil, testutil.ProgramID(), program.NewProcessor(nil))
	assert.Error(t, err)

	_, err = engine.New(t.Context(), testutil.OpenStore(t), testutil.ProgramID(), nil)
	assert.Error(t, err)
}

func TestSeedAccount_CopiesData(t *testing.T) {
	f := newFixture(t, program.NewProcessor(testutil.DiscardLogger()))

	seed := []byte{0xA5, 0xA5, 0xA5}
	key := testutil.Key("seeded")
	_, err := f.eng.SeedAccount(t.Context(), key, testutil.ProgramID(), seed)
	require.NoError(t, err)
	seed[0] = 0

	acc, err := f.st.ReadAccount(t.Context(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA5, 0xA5, 0xA5}, acc.Data)
}
