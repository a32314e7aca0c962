package codec

import "errors"

var (
	ErrShortBuffer         = errors.New("codec: short buffer")
	ErrLengthOverflow      = errors.New("codec: length prefix exceeds remaining bytes")
	ErrInvalidUTF8         = errors.New("codec: invalid utf-8 in string")
	ErrTrailingBytes       = errors.New("codec: trailing bytes after value")
	ErrInvalidDiscriminant = errors.New("codec: invalid discriminant")
	ErrStringTooLong       = errors.New("codec: string longer than u32 length prefix")
)
