// Package ir defines the trade ledger's data model and its canonical binary
// form.
//
// This package contains the record and instruction types plus their codec
// bindings. Every other internal package imports ir; ir imports only
// internal/codec. That keeps the data model the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Instruction is a closed sum type; the unexported encode method seals it
//   - quantities and prices are scaled integers (×1e8 and ×1e2), never floats
//   - decoding consumes the whole input; trailing bytes are an error
//   - symbol and numeric ranges are not validated here; the CLI's --strict
//     flag is where callers opt in to that
package ir
