package harness

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tradeledger/internal/ir"
)

// Scenario defines a conformance test scenario: a set of accounts, a
// sequence of calls against the program, and assertions over the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ProgramID optionally fixes the program identity (base58).
	// Defaults to the test program key.
	ProgramID string `yaml:"program_id,omitempty"`

	// Accounts are created, in order, before the first call.
	Accounts []AccountSetup `yaml:"accounts"`

	// Calls run in order against a single engine.
	Calls []CallStep `yaml:"calls"`

	// Assertions validate the final ledger and call log.
	// Supported types: record_equals, data_unchanged, call_error, call_ok
	Assertions []Assertion `yaml:"assertions"`
}

// AccountSetup declares an account by name. Keys derive from the name, so
// names referenced by calls but never declared still resolve.
type AccountSetup struct {
	Name string `yaml:"name"`

	// Capacity is the data buffer length in bytes.
	Capacity int `yaml:"capacity"`

	// Owner is "program" (default), "system", or the name of another key.
	Owner string `yaml:"owner,omitempty"`

	// Fill is an optional single hex byte every data byte starts as.
	Fill string `yaml:"fill,omitempty"`
}

// CallStep is a single invocation.
type CallStep struct {
	// Name lets assertions refer to this call.
	Name string `yaml:"name"`

	// Accounts is the ordered account list.
	Accounts []AccountRef `yaml:"accounts"`

	// RecordTrade builds the instruction from fields. Exactly one of
	// RecordTrade and Data must be set.
	RecordTrade *TradeFields `yaml:"record_trade,omitempty"`

	// Data is raw instruction bytes in hex, for malformed-input cases.
	Data *string `yaml:"data,omitempty"`

	// Expect optionally checks the outcome as soon as the call returns.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// AccountRef names an account and how it is passed.
type AccountRef struct {
	Name     string `yaml:"name"`
	Signer   bool   `yaml:"signer,omitempty"`
	Writable bool   `yaml:"writable,omitempty"`
}

// TradeFields is the YAML form of a trade record.
type TradeFields struct {
	UserID      string `yaml:"user_id"`
	AssetSymbol string `yaml:"asset_symbol"`
	TradeType   string `yaml:"trade_type"`
	Quantity    uint64 `yaml:"quantity"`
	Price       uint64 `yaml:"price"`
	Timestamp   int64  `yaml:"timestamp"`
}

// ExpectClause specifies the expected outcome of a call.
type ExpectClause struct {
	// Outcome is "ok" or "error".
	Outcome string `yaml:"outcome"`

	// Error is the expected error code when Outcome is "error".
	Error string `yaml:"error,omitempty"`
}

// Assertion validates final state or the call log.
type Assertion struct {
	// Type specifies the assertion type:
	// - "record_equals": account data starts with the given record
	// - "data_unchanged": account data equals what it was created with
	// - "call_error": named call failed with Code
	// - "call_ok": named call succeeded
	Type string `yaml:"type"`

	// Account is the account name (record_equals, data_unchanged).
	Account string `yaml:"account,omitempty"`

	// Record is the expected record (record_equals).
	Record *TradeFields `yaml:"record,omitempty"`

	// Call is the call name (call_error, call_ok).
	Call string `yaml:"call,omitempty"`

	// Code is the expected error code (call_error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertRecordEquals  = "record_equals"
	AssertDataUnchanged = "data_unchanged"
	AssertCallError     = "call_error"
	AssertCallOK        = "call_ok"
)

// Outcome values accepted in expect clauses.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Calls) == 0 {
		return fmt.Errorf("calls list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	accounts := make(map[string]bool, len(s.Accounts))
	for i, acc := range s.Accounts {
		if acc.Name == "" {
			return fmt.Errorf("accounts[%d]: name is required", i)
		}
		if accounts[acc.Name] {
			return fmt.Errorf("accounts[%d]: duplicate account %q", i, acc.Name)
		}
		accounts[acc.Name] = true
		if acc.Capacity < 0 {
			return fmt.Errorf("accounts[%d]: capacity must be non-negative", i)
		}
		if acc.Fill != "" {
			if _, err := parseFill(acc.Fill); err != nil {
				return fmt.Errorf("accounts[%d]: %w", i, err)
			}
		}
	}

	calls := make(map[string]bool, len(s.Calls))
	for i, call := range s.Calls {
		if call.Name == "" {
			return fmt.Errorf("calls[%d]: name is required", i)
		}
		if calls[call.Name] {
			return fmt.Errorf("calls[%d]: duplicate call %q", i, call.Name)
		}
		calls[call.Name] = true

		if (call.RecordTrade == nil) == (call.Data == nil) {
			return fmt.Errorf("calls[%d]: exactly one of record_trade and data is required", i)
		}
		if call.RecordTrade != nil {
			if _, err := call.RecordTrade.toRecord(); err != nil {
				return fmt.Errorf("calls[%d].record_trade: %w", i, err)
			}
		}
		if call.Data != nil {
			if _, err := hex.DecodeString(*call.Data); err != nil {
				return fmt.Errorf("calls[%d].data: %w", i, err)
			}
		}
		for j, ref := range call.Accounts {
			if ref.Name == "" {
				return fmt.Errorf("calls[%d].accounts[%d]: name is required", i, j)
			}
		}
		if call.Expect != nil {
			if err := validateExpect(call.Expect); err != nil {
				return fmt.Errorf("calls[%d].expect: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, accounts, calls); err != nil {
			return err
		}
	}
	return nil
}

func validateExpect(e *ExpectClause) error {
	switch e.Outcome {
	case OutcomeOK:
		if e.Error != "" {
			return fmt.Errorf("error must be empty when outcome is ok")
		}
	case OutcomeError:
	default:
		return fmt.Errorf("outcome must be %q or %q, got %q", OutcomeOK, OutcomeError, e.Outcome)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, accounts, calls map[string]bool) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRecordEquals:
		if !accounts[a.Account] {
			return fmt.Errorf("assertions[%d]: unknown account %q", index, a.Account)
		}
		if a.Record == nil {
			return fmt.Errorf("assertions[%d]: record is required for record_equals", index)
		}
		if _, err := a.Record.toRecord(); err != nil {
			return fmt.Errorf("assertions[%d].record: %w", index, err)
		}
	case AssertDataUnchanged:
		if !accounts[a.Account] {
			return fmt.Errorf("assertions[%d]: unknown account %q", index, a.Account)
		}
	case AssertCallError:
		if !calls[a.Call] {
			return fmt.Errorf("assertions[%d]: unknown call %q", index, a.Call)
		}
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for call_error", index)
		}
	case AssertCallOK:
		if !calls[a.Call] {
			return fmt.Errorf("assertions[%d]: unknown call %q", index, a.Call)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func (f *TradeFields) toRecord() (ir.TradeRecord, error) {
	userID, err := uuid.Parse(f.UserID)
	if err != nil {
		return ir.TradeRecord{}, fmt.Errorf("user_id: %w", err)
	}
	side, err := ir.ParseTradeType(f.TradeType)
	if err != nil {
		return ir.TradeRecord{}, fmt.Errorf("trade_type: %w", err)
	}
	return ir.TradeRecord{
		UserID:      userID,
		AssetSymbol: f.AssetSymbol,
		TradeType:   side,
		Quantity:    f.Quantity,
		Price:       f.Price,
		Timestamp:   f.Timestamp,
	}, nil
}

func parseFill(s string) (byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 1 {
		return 0, fmt.Errorf("fill must be a single hex byte, got %q", s)
	}
	return b[0], nil
}
