package packet

import (
	"errors"
	"fmt"
)

var (
	ErrStructural = errors.New("packet: structural error")
	ErrOverflow   = errors.New("packet: numeric overflow")
	ErrLimit      = errors.New("packet: decoder limit exceeded")
)

// StructuralError reports a packet whose shape violates the format: a
// sub-packet region that does not match its declared length, or an operator
// with the wrong number of operands.
type StructuralError struct {
	Offset int
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("packet: structural error at bit %d: %s", e.Offset, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// OverflowError reports a value that does not fit the requested width.
type OverflowError struct {
	Value string
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("packet: value %s overflows %d-bit integer", e.Value, e.Width)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// LimitError reports a packet that exceeds a configured decoder limit.
type LimitError struct {
	Offset int
	Limit  string
	Max    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("packet: %s limit %d exceeded at bit %d", e.Limit, e.Max, e.Offset)
}

func (e *LimitError) Unwrap() error { return ErrLimit }
