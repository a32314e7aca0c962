package codec

import (
	"encoding/binary"
	"math"
)

// Size constants for the fixed-width parts of the grammar.
const (
	SizeU8        = 1
	SizeU32       = 4
	SizeU64       = 8
	SizeI64       = 8
	SizeLenPrefix = SizeU32
)

// Encoder appends canonical encodings to an in-memory buffer.
//
// The buffer is owned by the Encoder until Bytes is called. Nothing is ever
// written to a caller's destination directly; callers copy the finished
// bytes once they know the full size.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with capacity for sizeHint bytes.
func NewEncoder(sizeHint int) *Encoder {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) I64(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

// Fixed writes b verbatim. The reader must know len(b) from the schema.
func (e *Encoder) Fixed(b []byte) {
	e.buf = append(e.buf, b...)
}

// String writes a u32 length prefix followed by the raw bytes of s.
func (e *Encoder) String(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return ErrStringTooLong
	}
	e.U32(uint32(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

// Len reports how many bytes have been encoded so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns the encoded bytes. The Encoder must not be reused afterwards.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// StringSize is the encoded size of s, including its length prefix.
func StringSize(s string) int {
	return SizeLenPrefix + len(s)
}
