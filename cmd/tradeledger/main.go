// Command tradeledger hosts the trade ledger program on a local SQLite
// ledger and submits RecordTrade calls to it.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tradeledger/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tradeledger:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
