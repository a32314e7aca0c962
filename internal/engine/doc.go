// Package engine hosts the trade ledger program.
//
// The engine is the execution environment the program assumes: it resolves
// the accounts an invocation names from the store, hands the program copies
// of their data with the caller's signer and writable flags, and after the
// program returns either commits the changed buffers or discards them.
// Every call, successful or not, lands in the store's call log stamped with
// a UUIDv7 call id and a seq from the engine's logical Clock.
//
// After a successful program run the engine applies its own guards before
// committing: only writable accounts owned by the program may change, and
// no buffer may change length.
//
// Replay reads the call log back and checks the ledger against it without
// writing anything.
package engine
