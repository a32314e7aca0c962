// Package store provides SQLite-backed durable state for the tradeledger host
// runtime.
//
// Two tables back it:
//   - accounts: every account the runtime knows, keyed by base58 public key,
//     with its owner and its raw data buffer
//   - calls: an append-only log of every instruction the runtime invoked,
//     successful or not
//
// A call and the account writes it produced commit in one transaction, so a
// crash never leaves data from a call that is missing from the log.
//
// # Ordering
//
// All ordering uses the logical seq column assigned by the runtime's clock,
// never wall time. Queries order by seq ASC with id as a tiebreaker.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
