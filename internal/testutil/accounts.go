package testutil

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/tradeledger/internal/program"
)

// DefaultRecordCapacity is the storage size the fixtures allocate unless a
// test asks for something else.
const DefaultRecordCapacity = 256

// Key derives a stable public key from name so fixtures and golden files stay
// deterministic across runs.
func Key(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte(name))
	return solana.PublicKeyFromBytes(sum[:])
}

// ProgramID is the identity tests run the program under.
func ProgramID() solana.PublicKey {
	return Key("tradeledger/test-program")
}

// SignerAccount builds a read-only participant that signed the call.
func SignerAccount(name string) *program.AccountInfo {
	return &program.AccountInfo{
		Key:      Key(name),
		IsSigner: true,
		Owner:    solana.SystemProgramID,
	}
}

// UnsignedAccount builds a participant that did not sign.
func UnsignedAccount(name string) *program.AccountInfo {
	a := SignerAccount(name)
	a.IsSigner = false
	return a
}

// StorageAccount builds a writable record-storage account owned by owner with
// a zeroed buffer of the given capacity.
func StorageAccount(name string, owner solana.PublicKey, capacity int) *program.AccountInfo {
	return &program.AccountInfo{
		Key:        Key(name),
		IsWritable: true,
		Owner:      owner,
		Data:       make([]byte, capacity),
	}
}
