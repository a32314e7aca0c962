package store

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when a pubkey has no row.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account whose pubkey is
	// already taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrCallNotFound is returned when a call id has no row.
	ErrCallNotFound = errors.New("call not found")
)

// Outcome is the result column of the call log.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Account is one row of the ledger.
type Account struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	Data       []byte
	CreatedSeq int64
	Seq        int64 // seq of the last committed write
}

// CallAccount records how an account was passed to a call.
type CallAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"signer"`
	IsWritable bool   `json:"writable"`
}

// Call is one row of the call log.
type Call struct {
	ID                string
	Seq               int64
	ProgramID         solana.PublicKey
	Instruction       []byte
	InstructionDigest string
	Accounts          []CallAccount
	Outcome           Outcome
	ErrorCode         string
	ErrorMessage      string
	RecordDigest      string
	ProgramVersion    string
}
