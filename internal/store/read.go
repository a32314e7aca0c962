package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ReadAccount returns the account stored under key.
func (s *Store) ReadAccount(ctx context.Context, key solana.PublicKey) (Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT pubkey, owner, data, created_seq, seq
		FROM accounts
		WHERE pubkey = ?
	`, key.String())

	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("read account %s: %w", key, ErrAccountNotFound)
	}
	if err != nil {
		return Account{}, fmt.Errorf("read account %s: %w", key, err)
	}
	return acc, nil
}

// ListAccounts returns every account in creation order.
// Returns an empty slice (not nil) when the ledger is empty.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pubkey, owner, data, created_seq, seq
		FROM accounts
		ORDER BY created_seq ASC, pubkey COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// ReadCall returns a single call by id.
func (s *Store) ReadCall(ctx context.Context, id string) (Call, error) {
	row := s.db.QueryRowContext(ctx, selectCalls+`WHERE id = ?`, id)
	call, err := scanCall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, fmt.Errorf("read call %s: %w", id, ErrCallNotFound)
	}
	if err != nil {
		return Call{}, fmt.Errorf("read call %s: %w", id, err)
	}
	return call, nil
}

// ReadCalls returns the whole call log, oldest first.
func (s *Store) ReadCalls(ctx context.Context) ([]Call, error) {
	return s.queryCalls(ctx, selectCalls+`ORDER BY seq ASC, id COLLATE BINARY ASC`)
}

// FindCallsByDigest returns every call whose instruction bytes hash to digest,
// oldest first.
func (s *Store) FindCallsByDigest(ctx context.Context, digest string) ([]Call, error) {
	return s.queryCalls(ctx, selectCalls+`WHERE instruction_digest = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC`, digest)
}

const selectCalls = `
	SELECT id, seq, program_id, instruction, instruction_digest, accounts,
	       outcome, error_code, error_message, record_digest, program_version
	FROM calls
`

func (s *Store) queryCalls(ctx context.Context, query string, args ...any) ([]Call, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	calls := []Call{}
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (Account, error) {
	var (
		acc           Account
		pubkey, owner string
	)
	if err := sc.Scan(&pubkey, &owner, &acc.Data, &acc.CreatedSeq, &acc.Seq); err != nil {
		return Account{}, err
	}

	var err error
	if acc.Key, err = solana.PublicKeyFromBase58(pubkey); err != nil {
		return Account{}, fmt.Errorf("decode pubkey %q: %w", pubkey, err)
	}
	if acc.Owner, err = solana.PublicKeyFromBase58(owner); err != nil {
		return Account{}, fmt.Errorf("decode owner of %s: %w", pubkey, err)
	}
	if acc.Data == nil {
		acc.Data = []byte{}
	}
	return acc, nil
}

func scanCall(sc scanner) (Call, error) {
	var (
		call                Call
		programID, accsJSON string
		outcome             string
	)
	err := sc.Scan(
		&call.ID,
		&call.Seq,
		&programID,
		&call.Instruction,
		&call.InstructionDigest,
		&accsJSON,
		&outcome,
		&call.ErrorCode,
		&call.ErrorMessage,
		&call.RecordDigest,
		&call.ProgramVersion,
	)
	if err != nil {
		return Call{}, err
	}

	if call.ProgramID, err = solana.PublicKeyFromBase58(programID); err != nil {
		return Call{}, fmt.Errorf("decode program id of call %s: %w", call.ID, err)
	}
	if err := json.Unmarshal([]byte(accsJSON), &call.Accounts); err != nil {
		return Call{}, fmt.Errorf("unmarshal accounts of call %s: %w", call.ID, err)
	}
	call.Outcome = Outcome(outcome)
	if call.Instruction == nil {
		call.Instruction = []byte{}
	}
	return call, nil
}
