package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tradeledger/internal/store"
)

// CallView is one call-log row as printed.
type CallView struct {
	ID                string              `json:"id"`
	Seq               int64               `json:"seq"`
	ProgramID         string              `json:"program_id"`
	InstructionDigest string              `json:"instruction_digest"`
	Accounts          []store.CallAccount `json:"accounts"`
	Outcome           string              `json:"outcome"`
	ErrorCode         string              `json:"error_code,omitempty"`
	ErrorMessage      string              `json:"error_message,omitempty"`
	RecordDigest      string              `json:"record_digest,omitempty"`
	ProgramVersion    string              `json:"program_version"`
}

func newCallView(c store.Call) CallView {
	return CallView{
		ID:                c.ID,
		Seq:               c.Seq,
		ProgramID:         c.ProgramID.String(),
		InstructionDigest: c.InstructionDigest,
		Accounts:          c.Accounts,
		Outcome:           string(c.Outcome),
		ErrorCode:         c.ErrorCode,
		ErrorMessage:      c.ErrorMessage,
		RecordDigest:      c.RecordDigest,
		ProgramVersion:    c.ProgramVersion,
	}
}

type callLog []CallView

func (l callLog) renderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No calls.")
		return
	}
	for _, c := range l {
		switch c.Outcome {
		case string(store.OutcomeOK):
			fmt.Fprintf(w, "%6d  %s  ok     %s\n", c.Seq, c.ID, short(c.RecordDigest))
		default:
			fmt.Fprintf(w, "%6d  %s  error  %s: %s\n", c.Seq, c.ID, c.ErrorCode, c.ErrorMessage)
		}
	}
}

func short(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	var digest string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the call log in sequence order",
		Long: `Print the call log in sequence order.

Every call is logged, including the ones the program rejected. With
--digest only calls whose instruction bytes hash to that digest are shown,
which is how a replayed instruction is found.`,
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

			var calls []store.Call
			if digest != "" {
				calls, err = s.store.FindCallsByDigest(ctx, digest)
			} else {
				calls, err = s.store.ReadCalls(ctx)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "read call log", err)
			}

			views := make(callLog, 0, len(calls))
			for _, c := range calls {
				views = append(views, newCallView(c))
			}
			return rootOpts.formatter(cmd).Success(views)
		},
	}
	cmd.Flags().StringVar(&digest, "digest", "", "only calls with this instruction digest")

	return cmd
}
