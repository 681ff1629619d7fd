package bits

import (
	"strings"
	"unicode/utf8"
)

// FromHex converts hex text into a Buffer of 4*len(s) bits, each digit
// contributing its four bits most-significant first. Upper and lower case
// digits are accepted. An odd number of digits leaves the low nibble of the
// last byte as zero padding outside Len().
func FromHex(s string) (Buffer, error) {
	data := make([]byte, (len(s)+1)/2)
	for i := 0; i < len(s); i++ {
		nib, ok := hexNibble(s[i])
		if !ok {
			return Buffer{}, &FormatError{Pos: i, Char: charAt(s, i)}
		}
		if i&1 == 0 {
			data[i>>1] = nib << 4
		} else {
			data[i>>1] |= nib
		}
	}
	return Buffer{data: data, n: 4 * len(s)}, nil
}

// FromBinary converts a string of '0' and '1' characters into a Buffer.
func FromBinary(s string) (Buffer, error) {
	data := make([]byte, (len(s)+7)/8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			data[i>>3] |= 1 << (7 - uint(i&7))
		default:
			return Buffer{}, &FormatError{Pos: i, Char: charAt(s, i)}
		}
	}
	return Buffer{data: data, n: len(s)}, nil
}

// FromBytes wraps a copy of raw bytes; every byte contributes eight bits.
func FromBytes(b []byte) Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return Buffer{data: data, n: 8 * len(b)}
}

// TrimInput strips surrounding whitespace and an optional 0x prefix.
func TrimInput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return s
}

// charAt decodes the rune starting at byte i so multi-byte characters are
// reported whole. Invalid UTF-8 yields utf8.RuneError.
func charAt(s string, i int) rune {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
