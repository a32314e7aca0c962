package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// requireSigner is the authorization gate: the participant must have signed
// the call.
func requireSigner(a *AccountInfo) error {
	if !a.IsSigner {
		return newError(ErrCodeMissingRequiredSignature,
			fmt.Sprintf("account %s must sign", a.Key), nil)
	}
	return nil
}

// requireRecordStorage checks the destination account may be written by this
// program: it must be writable and owned by programID.
func requireRecordStorage(programID solana.PublicKey, a *AccountInfo) error {
	if !a.IsWritable {
		return newError(ErrCodeInvalidAccountData,
			fmt.Sprintf("storage account %s is not writable", a.Key), nil)
	}
	if !a.Owner.Equals(programID) {
		return newError(ErrCodeIncorrectProgramID,
			fmt.Sprintf("storage account %s is owned by %s, not %s", a.Key, a.Owner, programID), nil)
	}
	return nil
}
