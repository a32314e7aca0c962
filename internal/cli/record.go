package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tradeledger/internal/engine"
	"github.com/roach88/tradeledger/internal/ir"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Signer  string
	Storage string
	NoSign  bool
	Trade   tradeFlags
}

// RecordResult is printed after a committed call.
type RecordResult struct {
	CallID       string    `json:"call_id"`
	Seq          int64     `json:"seq"`
	Storage      string    `json:"storage"`
	RecordDigest string    `json:"record_digest"`
	Record       tradeView `json:"record"`
}

func (r RecordResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "Recorded trade in %s (call %s, seq %d)\n", r.Storage, r.CallID, r.Seq)
	r.Record.renderText(w)
	fmt.Fprintf(w, "  digest:    %s\n", r.RecordDigest)
}

// callFailure is the JSON details of a rejected call.
type callFailure struct {
	CallID    string `json:"call_id"`
	Seq       int64  `json:"seq"`
	ErrorCode string `json:"error_code"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Submit a RecordTrade call",
		Long: `Submit a RecordTrade call to the hosted program.

The signer is passed as account 0 and the storage account as account 1
(writable). The call is logged whether or not the program accepts it; the
storage account only changes when it does.

Exit codes:
  0 - Call committed
  1 - Program or host rejected the call
  2 - Command error (bad flags, unreadable ledger, etc.)

Examples:
  tradeledger record --signer <key> --storage <key> \
    --user 01010101-0101-0101-0101-010101010101 \
    --symbol BTC --side buy --quantity 1 --price 45000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Signer, "signer", "", "signer account key")
	cmd.Flags().StringVar(&opts.Storage, "storage", "", "record-storage account key")
	cmd.Flags().BoolVar(&opts.NoSign, "no-sign", false, "pass the signer without its signature")
	_ = cmd.MarkFlagRequired("signer")
	_ = cmd.MarkFlagRequired("storage")
	opts.Trade.register(cmd)

	return cmd
}

func runRecord(cmd *cobra.Command, opts *RecordOptions) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	signer, err := parseKey("signer", opts.Signer)
	if err != nil {
		return err
	}
	storage, err := parseKey("storage", opts.Storage)
	if err != nil {
		return err
	}
	ins, err := opts.Trade.instruction(time.Now)
	if err != nil {
		if ferr := f.Error(ErrCodeInvalidInput, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "invalid trade", err)
	}
	data, err := ir.EncodeInstruction(ins)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode instruction", err)
	}

	s, err := opts.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	receipt, err := s.engine.Invoke(ctx, engine.Invocation{
		Accounts: []engine.AccountMeta{
			{Pubkey: signer, IsSigner: !opts.NoSign},
			{Pubkey: storage, IsWritable: true},
		},
		Data: data,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "invoke", err)
	}

	if receipt.Err != nil {
		code := engine.ErrorCode(receipt.Err)
		if ferr := f.Error(ErrCodeCallFailed, receipt.Err.Error(), callFailure{
			CallID:    receipt.CallID,
			Seq:       receipt.Seq,
			ErrorCode: code,
		}); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "call "+receipt.CallID+" rejected", receipt.Err)
	}

	return f.Success(RecordResult{
		CallID:       receipt.CallID,
		Seq:          receipt.Seq,
		Storage:      storage.String(),
		RecordDigest: receipt.RecordDigest,
		Record:       newTradeView(ir.TradeRecord(ins)),
	})
}
