package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// CreateAccount inserts a new account. Returns ErrAccountExists if the pubkey
// is already in the ledger.
func (s *Store) CreateAccount(ctx context.Context, acc Account) error {
	data := acc.Data
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (pubkey, owner, data, created_seq, seq)
		VALUES (?, ?, ?, ?, ?)
	`,
		acc.Key.String(),
		acc.Owner.String(),
		data,
		acc.CreatedSeq,
		acc.CreatedSeq,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create account %s: %w", acc.Key, ErrAccountExists)
		}
		return fmt.Errorf("create account %s: %w", acc.Key, err)
	}
	return nil
}

// CommitCall appends call to the log and applies writes in one transaction.
// Each write replaces the stored data of an existing account and stamps it
// with the call's seq. A failed call is committed with no writes.
func (s *Store) CommitCall(ctx context.Context, call Call, writes []Account) error {
	accountsJSON, err := json.Marshal(callAccounts(call.Accounts))
	if err != nil {
		return fmt.Errorf("commit call: marshal accounts: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit call: begin: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		if err := updateAccountData(ctx, tx, w.Key.String(), w.Data, call.Seq); err != nil {
			return fmt.Errorf("commit call %s: %w", call.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calls
		(id, seq, program_id, instruction, instruction_digest, accounts,
		 outcome, error_code, error_message, record_digest, program_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		call.ID,
		call.Seq,
		call.ProgramID.String(),
		nonNil(call.Instruction),
		call.InstructionDigest,
		string(accountsJSON),
		string(call.Outcome),
		call.ErrorCode,
		call.ErrorMessage,
		call.RecordDigest,
		call.ProgramVersion,
	)
	if err != nil {
		return fmt.Errorf("commit call %s: insert: %w", call.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit call %s: %w", call.ID, err)
	}
	return nil
}

func updateAccountData(ctx context.Context, tx *sql.Tx, pubkey string, data []byte, seq int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET data = ?, seq = ? WHERE pubkey = ?
	`, nonNil(data), seq, pubkey)
	if err != nil {
		return fmt.Errorf("write account %s: %w", pubkey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write account %s: %w", pubkey, err)
	}
	if n == 0 {
		return fmt.Errorf("write account %s: %w", pubkey, ErrAccountNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// callAccounts keeps the JSON column an array even when a call had no accounts.
func callAccounts(accs []CallAccount) []CallAccount {
	if accs == nil {
		return []CallAccount{}
	}
	return accs
}

// nonNil keeps BLOB columns from binding as NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
