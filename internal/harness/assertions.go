package harness

import (
	"bytes"
	"fmt"

	"github.com/roach88/tradeledger/internal/ir"
)

// evaluateAssertion returns nil when a holds against result.
func evaluateAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertRecordEquals:
		return assertRecordEquals(a, result)
	case AssertDataUnchanged:
		return assertDataUnchanged(a, result)
	case AssertCallError:
		return assertCallError(a, result)
	case AssertCallOK:
		return assertCallOK(a, result)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertRecordEquals decodes the record at the start of the account's data
// and compares every field. Bytes after the record are not inspected.
func assertRecordEquals(a Assertion, result *Result) error {
	data, ok := result.final[a.Account]
	if !ok {
		return fmt.Errorf("account %q not found", a.Account)
	}
	want, err := a.Record.toRecord()
	if err != nil {
		return err
	}

	got, _, err := ir.DecodeRecordPrefix(data)
	if err != nil {
		return fmt.Errorf("account %q does not hold a record: %w", a.Account, err)
	}
	if got != want {
		return fmt.Errorf("account %q: record = %+v, want %+v", a.Account, got, want)
	}
	return nil
}

func assertDataUnchanged(a Assertion, result *Result) error {
	before, ok := result.initial[a.Account]
	if !ok {
		return fmt.Errorf("account %q not found", a.Account)
	}
	after := result.final[a.Account]
	if !bytes.Equal(before, after) {
		return fmt.Errorf("account %q: data changed", a.Account)
	}
	return nil
}

func assertCallError(a Assertion, result *Result) error {
	ev, ok := result.calls[a.Call]
	if !ok {
		return fmt.Errorf("call %q not found", a.Call)
	}
	if ev.Outcome != OutcomeError {
		return fmt.Errorf("call %q succeeded, want %s", a.Call, a.Code)
	}
	if ev.ErrorCode != a.Code {
		return fmt.Errorf("call %q failed with %s, want %s", a.Call, ev.ErrorCode, a.Code)
	}
	return nil
}

func assertCallOK(a Assertion, result *Result) error {
	ev, ok := result.calls[a.Call]
	if !ok {
		return fmt.Errorf("call %q not found", a.Call)
	}
	if ev.Outcome != OutcomeOK {
		return fmt.Errorf("call %q failed with %s", a.Call, ev.ErrorCode)
	}
	return nil
}
