package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/tradeledger/internal/engine"
	"github.com/roach88/tradeledger/internal/ir"
	"github.com/roach88/tradeledger/internal/store"
)

// AccountView is how accounts are printed.
type AccountView struct {
	Pubkey     string     `json:"pubkey"`
	Owner      string     `json:"owner"`
	Capacity   int        `json:"capacity"`
	CreatedSeq int64      `json:"created_seq"`
	Seq        int64      `json:"seq"`
	Data       string     `json:"data,omitempty"`
	Record     *tradeView `json:"record,omitempty"`
}

func newAccountView(acc store.Account, withData bool) AccountView {
	v := AccountView{
		Pubkey:     acc.Key.String(),
		Owner:      acc.Owner.String(),
		Capacity:   len(acc.Data),
		CreatedSeq: acc.CreatedSeq,
		Seq:        acc.Seq,
	}
	if withData {
		v.Data = hex.EncodeToString(acc.Data)
		// A zeroed buffer decodes as an empty record; only show real ones.
		if r, _, err := ir.DecodeRecordPrefix(acc.Data); err == nil && acc.Seq != acc.CreatedSeq {
			tv := newTradeView(r)
			v.Record = &tv
		}
	}
	return v
}

func (v AccountView) renderText(w io.Writer) {
	fmt.Fprintf(w, "Account %s\n", v.Pubkey)
	fmt.Fprintf(w, "  owner:    %s\n", v.Owner)
	fmt.Fprintf(w, "  capacity: %d bytes\n", v.Capacity)
	fmt.Fprintf(w, "  seq:      %d (created %d)\n", v.Seq, v.CreatedSeq)
	if v.Record != nil {
		fmt.Fprintln(w, "Record:")
		v.Record.renderText(w)
	}
}

type accountList []AccountView

func (l accountList) renderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No accounts.")
		return
	}
	for _, v := range l {
		fmt.Fprintf(w, "%s  owner=%s  capacity=%d  seq=%d\n", v.Pubkey, v.Owner, v.Capacity, v.Seq)
	}
}

// NewAccountCommand groups the account subcommands.
func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create and inspect ledger accounts",
	}
	cmd.AddCommand(newAccountCreateCommand(rootOpts))
	cmd.AddCommand(newAccountShowCommand(rootOpts))
	cmd.AddCommand(newAccountListCommand(rootOpts))
	return cmd
}

type accountCreateOptions struct {
	*RootOptions
	Capacity int
	Owner    string
	Key      string
}

func newAccountCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Allocate a zeroed account",
		Long: `Allocate a zeroed account in the ledger.

The owner is the hosted program by default, which is what record storage
needs. Use --owner system for plain signer accounts, or pass any base58 key.

Examples:
  tradeledger account create
  tradeledger account create --capacity 48
  tradeledger account create --owner system`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountCreate(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "data size in bytes (default record_capacity)")
	cmd.Flags().StringVar(&opts.Owner, "owner", "program", "owner: program, system, or a base58 key")
	cmd.Flags().StringVar(&opts.Key, "key", "", "account key (default random)")

	return cmd
}

func runAccountCreate(cmd *cobra.Command, opts *accountCreateOptions) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	capacity := opts.Config.RecordCapacity
	if cmd.Flags().Changed("capacity") {
		capacity = opts.Capacity
	}
	if capacity < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid capacity %d", capacity))
	}

	key := engine.NewAccountKey()
	if opts.Key != "" {
		k, err := parseKey("account key", opts.Key)
		if err != nil {
			return err
		}
		key = k
	}

	s, err := opts.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	owner, err := resolveOwner(opts.Owner, s.engine.ProgramID())
	if err != nil {
		return err
	}

	acc, err := s.engine.CreateAccount(ctx, key, owner, capacity)
	if errors.Is(err, store.ErrAccountExists) {
		if ferr := f.Error(ErrCodeInvalidInput, err.Error(), key.String()); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "account create", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "account create", err)
	}

	return f.Success(newAccountView(acc, false))
}

func resolveOwner(s string, programID solana.PublicKey) (solana.PublicKey, error) {
	switch s {
	case "", "program":
		return programID, nil
	case "system":
		return solana.SystemProgramID, nil
	default:
		return parseKey("owner", s)
	}
}

func newAccountShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <pubkey>",
		Short:         "Print an account and the record it holds",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := rootOpts.formatter(cmd)

			key, err := parseKey("pubkey", args[0])
			if err != nil {
				return err
			}

			s, err := rootOpts.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			acc, err := s.store.ReadAccount(ctx, key)
			if errors.Is(err, store.ErrAccountNotFound) {
				if ferr := f.Error(ErrCodeNotFound, "account not found", key.String()); ferr != nil {
					return ferr
				}
				return WrapExitError(ExitFailure, "account show", err)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "account show", err)
			}
			return f.Success(newAccountView(acc, true))
		},
	}
}

func newAccountListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List ledger accounts in creation order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := rootOpts.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			accounts, err := s.store.ListAccounts(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "account list", err)
			}
			views := make(accountList, 0, len(accounts))
			for _, acc := range accounts {
				views = append(views, newAccountView(acc, false))
			}
			return rootOpts.formatter(cmd).Success(views)
		},
	}
}
