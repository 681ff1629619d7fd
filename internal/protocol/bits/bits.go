// Package bits holds immutable bit buffers and big-endian field reads.
package bits

import (
	"errors"
	"fmt"
	"strings"
)

// MaxReadWidth is the widest field ReadUint can return in one call.
const MaxReadWidth = 64

var (
	ErrFormat    = errors.New("bits: invalid input character")
	ErrTruncated = errors.New("bits: truncated input")
)

// FormatError reports the first character that is not a valid digit. Pos is
// a byte index into the input.
type FormatError struct {
	Pos  int
	Char rune
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bits: invalid character %q at position %d", e.Char, e.Pos)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// TruncatedError reports a read that runs past the end of the buffer.
type TruncatedError struct {
	Offset int
	Width  int
	Len    int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("bits: read of %d bits at offset %d exceeds buffer length %d", e.Width, e.Offset, e.Len)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// Buffer is an immutable sequence of bits packed MSB-first into bytes.
// The zero value is an empty buffer.
type Buffer struct {
	data []byte
	n    int
}

// Len returns the number of bits in the buffer.
func (b Buffer) Len() int {
	return b.n
}

// Bit returns the bit at index i (0 or 1).
func (b Buffer) Bit(i int) (uint8, error) {
	if i < 0 || i >= b.n {
		return 0, &TruncatedError{Offset: i, Width: 1, Len: b.n}
	}
	return (b.data[i>>3] >> (7 - uint(i&7))) & 1, nil
}

// ReadUint interprets width bits at offset as a big-endian unsigned integer
// and returns it with the offset just past the field.
func (b Buffer) ReadUint(offset, width int) (uint64, int, error) {
	if offset < 0 || width < 0 || width > MaxReadWidth || offset > b.n || width > b.n-offset {
		return 0, offset, &TruncatedError{Offset: offset, Width: width, Len: b.n}
	}
	var v uint64
	pos := offset
	end := offset + width
	for pos < end {
		// take as many bits as remain in the current byte
		used := pos & 7
		take := 8 - used
		if rem := end - pos; rem < take {
			take = rem
		}
		chunk := uint64(b.data[pos>>3]>>(8-used-take)) & (1<<take - 1)
		v = v<<take | chunk
		pos += take
	}
	return v, end, nil
}

// String renders the buffer as a '0'/'1' string.
func (b Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if (b.data[i>>3]>>(7-uint(i&7)))&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
