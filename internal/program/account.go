package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountInfo is a participant handle supplied by the host.
//
// Data is borrowed: the program may write into it for the duration of the
// call only, and never changes its length.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Owner      solana.PublicKey
	Data       []byte
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf("%s(signer=%t writable=%t owner=%s len=%d)",
		a.Key, a.IsSigner, a.IsWritable, a.Owner, len(a.Data))
}

// accountIter walks the call's accounts in order.
type accountIter struct {
	accounts []*AccountInfo
	next     int
}

func newAccountIter(accounts []*AccountInfo) *accountIter {
	return &accountIter{accounts: accounts}
}

// Next returns the next account, or NotEnoughAccountKeys when the list is
// exhausted. role names the expected account in the error.
func (it *accountIter) Next(role string) (*AccountInfo, error) {
	if it.next >= len(it.accounts) || it.accounts[it.next] == nil {
		return nil, newError(ErrCodeNotEnoughAccountKeys,
			fmt.Sprintf("missing account %d (%s)", it.next, role), nil)
	}
	a := it.accounts[it.next]
	it.next++
	return a, nil
}
