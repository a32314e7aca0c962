// Package program is the trade ledger's on-ledger logic: the single entry
// point the host calls with a program identity, an ordered list of account
// handles, and raw instruction bytes.
//
// Every call runs the same linear pipeline:
//
//	decode → dispatch → authorize → build → serialize → emit
//
// Any failure short-circuits and returns an *Error carrying one of the
// ErrorCode values. The program never writes to an account before every
// check has passed and the encoded record is known to fit, so a failed call
// leaves account data byte-for-byte unchanged even without host rollback.
//
// The program holds no state between calls and performs no locking; the host
// gives each call exclusive access to its accounts' data.
package program
