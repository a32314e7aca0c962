package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "file name and scenario name must agree")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "last_write_wins.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

const btcFields = `
      user_id: 01010101-0101-0101-0101-010101010101
      asset_symbol: BTC
      trade_type: buy
      quantity: 100000000
      price: 4500000
      timestamp: 1234567890`

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_expectation
description: expects success from an unsigned call
accounts:
  - name: storage
    capacity: 64
calls:
  - name: unsigned
    accounts:
      - {name: user}
      - {name: storage, writable: true}
    record_trade:` + btcFields + `
    expect: {outcome: ok}
assertions:
  - type: call_ok
    call: unsigned
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected outcome ok, got error (MissingRequiredSignature)")
	assert.Contains(t, result.Errors[1], "call_ok")
}

func TestRun_AssertionFailures(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_assertions
description: every assertion here is false
accounts:
  - name: storage
    capacity: 64
calls:
  - name: buy
    accounts:
      - {name: user, signer: true}
      - {name: storage, writable: true}
    record_trade:` + btcFields + `
assertions:
  - type: data_unchanged
    account: storage
  - type: call_error
    call: buy
    code: AccountDataTooSmall
  - type: record_equals
    account: storage
    record:
      user_id: 01010101-0101-0101-0101-010101010101
      asset_symbol: ETH
      trade_type: buy
      quantity: 100000000
      price: 4500000
      timestamp: 1234567890
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 3)
}

func TestRun_RecordEqualsOnUnwrittenAccount(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: nothing_written
description: the only call fails so storage never holds a record
accounts:
  - name: storage
    capacity: 8
calls:
  - name: too_small
    accounts:
      - {name: user, signer: true}
      - {name: storage, writable: true}
    record_trade:` + btcFields + `
assertions:
  - type: record_equals
    account: storage
    record:` + btcFields + `
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "does not hold a record")
}

func TestRun_InvalidProgramID(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_program
description: program id is not base58
program_id: "0OIl"
calls:
  - name: noop
    accounts: []
    data: "ff"
assertions:
  - type: call_error
    call: noop
    code: InvalidInstructionData
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	assert.Error(t, err)
}
