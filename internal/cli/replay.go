package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tradeledger/internal/engine"
)

type replayReport engine.ReplayReport

func (r replayReport) renderText(w io.Writer) {
	fmt.Fprintf(w, "Replayed %d calls (%d committed, %d rejected), checked %d accounts\n",
		r.Calls, r.Committed, r.Rejected, r.Accounts)
	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "✓ Ledger is consistent")
		return
	}
	for _, fd := range r.Findings {
		if fd.Account != "" {
			fmt.Fprintf(w, "✗ seq %d (%s) account %s: %s\n", fd.Seq, fd.CallID, fd.Account, fd.Problem)
		} else {
			fmt.Fprintf(w, "✗ seq %d (%s): %s\n", fd.Seq, fd.CallID, fd.Problem)
		}
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Replay the call log and check it against the ledger",
		Long: `Replay the call log in seq order and check that the ledger agrees with it.

Every logged instruction is decoded again. Committed calls must carry the
digest of the record their instruction holds, and each record-storage
account must still hold the record of the last committed call that wrote it.
Nothing is modified.

Exit codes:
  0 - Ledger is consistent
  1 - Inconsistencies found
  2 - Command error (unreadable ledger, etc.)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := rootOpts.formatter(cmd)

			s, err := rootOpts.openSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := engine.Replay(ctx, s.store)
			if err != nil {
				return WrapExitError(ExitCommandError, "replay", err)
			}
			if report.OK() {
				return f.Success(replayReport(report))
			}

			msg := fmt.Sprintf("%d inconsistencies found", len(report.Findings))
			if f.Format == "json" {
				if err := f.Error(ErrCodeReplay, msg, report); err != nil {
					return err
				}
			} else {
				replayReport(report).renderText(f.Writer)
			}
			return NewExitError(ExitFailure, msg)
		},
	}
}
