package store

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

// createTestStore opens a fresh database under t.TempDir().
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

// createTestAccount builds an account with a zeroed buffer of size bytes.
func createTestAccount(name string, owner solana.PublicKey, size int, seq int64) Account {
	return Account{
		Key:        testKey(name),
		Owner:      owner,
		Data:       make([]byte, size),
		CreatedSeq: seq,
	}
}

// createTestCall builds a call with minimal required fields.
func createTestCall(id string, seq int64, outcome Outcome) Call {
	return Call{
		ID:                id,
		Seq:               seq,
		ProgramID:         testKey("program"),
		Instruction:       []byte{0x00, 0x01},
		InstructionDigest: "digest-" + id,
		Accounts: []CallAccount{
			{Pubkey: testKey("user").String(), IsSigner: true},
			{Pubkey: testKey("storage").String(), IsWritable: true},
		},
		Outcome:        outcome,
		ProgramVersion: "0.1.0",
	}
}
