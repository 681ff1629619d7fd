package packet

import (
	"fmt"
	"math/big"
)

// Field widths of the wire format, in bits.
const (
	VersionBits     = 3
	TypeBits        = 3
	HeaderBits      = VersionBits + TypeBits
	ModeBits        = 1
	LengthBits      = 15
	CountBits       = 11
	GroupBits       = 5
	GroupDataBits   = 4
	groupContinue   = 1 << GroupDataBits
	groupDataMask   = groupContinue - 1
	TypeLiteral     = 4
	smallLiteralMax = 64 - GroupDataBits
)

// Header is the 6-bit prefix shared by every packet.
type Header struct {
	Version uint8
	TypeID  uint8
}

// Kind discriminates the packet variants.
type Kind uint8

const (
	KindLiteral Kind = iota + 1
	KindOperator
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindOperator:
		return "operator"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Op is the operator function selected by an operator packet's type id.
type Op uint8

const (
	OpSum     Op = 0
	OpProduct Op = 1
	OpMin     Op = 2
	OpMax     Op = 3
	OpGreater Op = 5
	OpLess    Op = 6
	OpEqual   Op = 7
)

func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpProduct:
		return "product"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpGreater:
		return "gt"
	case OpLess:
		return "lt"
	case OpEqual:
		return "eq"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// IsComparison reports whether o requires exactly two operands.
func (o Op) IsComparison() bool {
	return o == OpGreater || o == OpLess || o == OpEqual
}

// Mode is the sub-packet discipline of an operator.
type Mode uint8

const (
	LengthMode Mode = 0
	CountMode  Mode = 1
)

func (m Mode) String() string {
	if m == CountMode {
		return "count"
	}
	return "length"
}

// Span is a half-open bit range [Start, End).
type Span struct {
	Start int
	End   int
}

// Bits returns the number of bits covered by the span.
func (s Span) Bits() int {
	return s.End - s.Start
}

// Packet is one decoded packet. Kind selects which fields are meaningful:
// literals carry Value, operators carry Op, Mode, Extent and Children.
type Packet struct {
	Header Header
	Kind   Kind
	Span   Span

	Value *big.Int

	Op       Op
	Mode     Mode
	Extent   int // declared child bit length (LengthMode) or child count (CountMode)
	Children []Packet
}
