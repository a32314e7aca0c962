package cli

import (
	"context"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/tradeledger/internal/engine"
	"github.com/roach88/tradeledger/internal/program"
	"github.com/roach88/tradeledger/internal/store"
)

// session is an open ledger with the program hosted on it. Commands that
// touch the ledger open one, use it, and Close it before returning.
type session struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

func (o *RootOptions) openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	f := o.formatter(cmd)

	programID, err := o.Config.ProgramKey()
	if err != nil {
		return nil, commandError(f, ErrCodeConfig, "invalid program id", err)
	}

	st, err := store.Open(o.Config.DBPath)
	if err != nil {
		return nil, commandError(f, ErrCodeStore, "failed to open ledger", err)
	}

	logger := o.Config.Logger(cmd.ErrOrStderr())
	eng, err := engine.New(ctx, st, programID,
		program.NewProcessor(logger.With("component", "program")),
		engine.WithLogger(logger.With("component", "engine")),
	)
	if err != nil {
		st.Close()
		return nil, commandError(f, ErrCodeStore, "failed to start engine", err)
	}

	logger.DebugContext(ctx, "ledger opened", "db_path", o.Config.DBPath, "program_id", programID.String())
	return &session{store: st, engine: eng, logger: logger}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// parseKey parses a base58 public key argument.
func parseKey(what, s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, WrapExitError(ExitCommandError, "invalid "+what, err)
	}
	return key, nil
}
