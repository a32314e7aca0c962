// Package harness runs YAML conformance scenarios against the trade ledger
// program hosted in a real engine.
//
// A scenario declares accounts (capacity, owner, optional fill byte), an
// ordered list of calls, and assertions over the final ledger and call log.
// Each run uses a fresh in-memory store, the fixed test program identity,
// name-derived account keys and sequential call ids, so two runs of the same
// scenario produce identical snapshots.
//
// # Scenario format
//
//	name: record_trade_success
//	description: a signed call writes the record at offset 0
//	accounts:
//	  - name: storage
//	    capacity: 256
//	calls:
//	  - name: buy
//	    accounts:
//	      - {name: user, signer: true}
//	      - {name: storage, writable: true}
//	    record_trade:
//	      user_id: 01010101-0101-0101-0101-010101010101
//	      asset_symbol: BTC
//	      trade_type: buy
//	      quantity: 100000000
//	      price: 4500000
//	      timestamp: 1234567890
//	    expect: {outcome: ok}
//	assertions:
//	  - type: record_equals
//	    account: storage
//	    record: {...}
//
// Calls may give raw instruction bytes as data: "<hex>" instead of
// record_trade, for malformed-input cases.
//
// # Golden files
//
// RunWithGolden snapshots the trace (seq, call id, outcome, error code,
// record digest and the program's log lines) together with the final account
// data, and compares it with testdata/golden/<name>.golden using goldie.
package harness
