package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Decoder reads canonical encodings from a byte slice.
//
// Every read either consumes exactly the bytes it needs or fails without
// advancing. Returned byte slices and strings are copies; the Decoder never
// hands out aliases into its input.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder returns a Decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining is the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, d.off, d.Remaining())
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.take(SizeU8)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.take(SizeU32)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) U64() (uint64, error) {
	b, err := d.take(SizeU64)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) I64() (int64, error) {
	b, err := d.take(SizeI64)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// FixedInto fills dst with the next len(dst) bytes.
func (d *Decoder) FixedInto(dst []byte) error {
	b, err := d.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// String reads a u32 length prefix and that many UTF-8 bytes.
// The prefix is checked against the remaining input before anything is
// allocated, so a corrupted length cannot trigger a large allocation.
func (d *Decoder) String() (string, error) {
	start := d.off
	n, err := d.U32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.Remaining()) {
		d.off = start
		return "", fmt.Errorf("%w: length %d at offset %d, have %d", ErrLengthOverflow, n, start, d.Remaining())
	}
	b, err := d.take(int(n))
	if err != nil {
		d.off = start
		return "", err
	}
	if !utf8.Valid(b) {
		d.off = start
		return "", fmt.Errorf("%w at offset %d", ErrInvalidUTF8, start)
	}
	return string(b), nil
}

// Finish reports ErrTrailingBytes if any input is left unread.
func (d *Decoder) Finish() error {
	if d.Remaining() != 0 {
		return fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, d.Remaining(), d.off)
	}
	return nil
}
