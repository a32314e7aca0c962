// Package codec implements the canonical binary encoding used for both wire
// instructions and persisted trade records.
//
// The grammar is deliberately small:
//   - integers are fixed-width little-endian (u8, u32, u64, i64)
//   - fixed-size byte blocks are written raw, without a length
//   - text is a u32 length prefix followed by UTF-8 bytes
//   - enumerations and instruction tags are a single discriminant byte
//
// Decoding never guesses. A short buffer, a length prefix that runs past the
// end of the input, invalid UTF-8, or leftover bytes at Finish all fail with
// a sentinel error from this package. Encoding produces exactly the bytes the
// Decoder accepts.
package codec
