package packet

import (
	"fmt"
	"math/big"

	"github.com/danmuck/bitpacket/internal/protocol/bits"
)

const (
	// DefaultMaxDepth bounds packet nesting when Limits.MaxDepth is zero.
	DefaultMaxDepth = 1024
	// MaxDepthCeiling is the deepest nesting any Decoder accepts. Decode,
	// Evaluate and Walk recurse once per level.
	MaxDepthCeiling = 1 << 16
)

// Limits constrains decoder resource use. A zero MaxDepth selects
// DefaultMaxDepth and values above MaxDepthCeiling are clamped to it.
// A zero MaxLiteralGroups is unlimited.
type Limits struct {
	MaxDepth         int
	MaxLiteralGroups int
}

func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth}
}

// Decoder decodes packets from bit buffers. It holds no per-call state and
// may be shared.
type Decoder struct {
	limits Limits
}

func NewDecoder(limits Limits) *Decoder {
	switch {
	case limits.MaxDepth <= 0:
		limits.MaxDepth = DefaultMaxDepth
	case limits.MaxDepth > MaxDepthCeiling:
		limits.MaxDepth = MaxDepthCeiling
	}
	return &Decoder{limits: limits}
}

// Decode decodes the outermost packet at the start of buf with default
// limits. Bits after the returned offset are padding.
func Decode(buf bits.Buffer) (Packet, int, error) {
	return NewDecoder(DefaultLimits()).DecodeAt(buf, 0)
}

// DecodeAt decodes one packet starting at offset and returns it together
// with the offset just past its last bit.
func (d *Decoder) DecodeAt(buf bits.Buffer, offset int) (Packet, int, error) {
	return d.decode(buf, offset, buf.Len(), 1)
}

// decode reads one packet that must lie entirely before end. end is either
// the buffer length or the end of an enclosing length-mode region.
func (d *Decoder) decode(buf bits.Buffer, offset, end, depth int) (Packet, int, error) {
	if depth > d.limits.MaxDepth {
		return Packet{}, offset, &LimitError{Offset: offset, Limit: "depth", Max: d.limits.MaxDepth}
	}
	start := offset

	version, off, err := d.read(buf, offset, VersionBits, end)
	if err != nil {
		return Packet{}, offset, err
	}
	typeID, off, err := d.read(buf, off, TypeBits, end)
	if err != nil {
		return Packet{}, offset, err
	}
	h := Header{Version: uint8(version), TypeID: uint8(typeID)}

	if typeID == TypeLiteral {
		value, next, err := d.literal(buf, off, end)
		if err != nil {
			return Packet{}, offset, err
		}
		return Packet{Header: h, Kind: KindLiteral, Span: Span{Start: start, End: next}, Value: value}, next, nil
	}

	mode, off, err := d.read(buf, off, ModeBits, end)
	if err != nil {
		return Packet{}, offset, err
	}
	p := Packet{Header: h, Kind: KindOperator, Op: Op(typeID), Mode: Mode(mode)}

	switch p.Mode {
	case LengthMode:
		total, next, err := d.read(buf, off, LengthBits, end)
		if err != nil {
			return Packet{}, offset, err
		}
		off = next
		p.Extent = int(total)
		childEnd := off + p.Extent
		if childEnd > end && end < buf.Len() {
			return Packet{}, offset, &StructuralError{
				Offset: start,
				Reason: fmt.Sprintf("%s declared length %d overruns enclosing region ending at bit %d", p.Op, p.Extent, end),
			}
		}
		for off < childEnd {
			child, next, err := d.decode(buf, off, childEnd, depth+1)
			if err != nil {
				return Packet{}, offset, err
			}
			p.Children = append(p.Children, child)
			off = next
		}
		if off != childEnd {
			return Packet{}, offset, &StructuralError{
				Offset: start,
				Reason: fmt.Sprintf("%s sub-packets consumed %d bits, declared %d", p.Op, off-(childEnd-p.Extent), p.Extent),
			}
		}
	case CountMode:
		count, next, err := d.read(buf, off, CountBits, end)
		if err != nil {
			return Packet{}, offset, err
		}
		off = next
		p.Extent = int(count)
		if p.Extent > 0 {
			p.Children = make([]Packet, 0, p.Extent)
		}
		for i := 0; i < p.Extent; i++ {
			child, next, err := d.decode(buf, off, end, depth+1)
			if err != nil {
				return Packet{}, offset, err
			}
			p.Children = append(p.Children, child)
			off = next
		}
	}

	p.Span = Span{Start: start, End: off}
	return p, off, nil
}

// literal reads 5-bit groups until one with a clear continuation bit and
// returns the concatenated 4-bit payloads.
func (d *Decoder) literal(buf bits.Buffer, offset, end int) (*big.Int, int, error) {
	var (
		small   uint64
		wide    *big.Int
		payload = 0
		off     = offset
	)
	for groups := 0; ; groups++ {
		if d.limits.MaxLiteralGroups > 0 && groups >= d.limits.MaxLiteralGroups {
			return nil, offset, &LimitError{Offset: off, Limit: "literal groups", Max: d.limits.MaxLiteralGroups}
		}
		group, next, err := d.read(buf, off, GroupBits, end)
		if err != nil {
			return nil, offset, err
		}
		off = next
		nibble := group & groupDataMask
		if wide == nil && payload <= smallLiteralMax {
			small = small<<GroupDataBits | nibble
		} else {
			if wide == nil {
				wide = new(big.Int).SetUint64(small)
			}
			wide.Lsh(wide, GroupDataBits)
			wide.Or(wide, new(big.Int).SetUint64(nibble))
		}
		payload += GroupDataBits
		if group&groupContinue == 0 {
			break
		}
	}
	if wide != nil {
		return wide, off, nil
	}
	return new(big.Int).SetUint64(small), off, nil
}

// read is a bounded ReadUint: crossing end inside the buffer means a
// sub-packet ran past its declared region.
func (d *Decoder) read(buf bits.Buffer, offset, width, end int) (uint64, int, error) {
	if offset+width > end && end < buf.Len() {
		return 0, offset, &StructuralError{
			Offset: offset,
			Reason: fmt.Sprintf("read of %d bits crosses declared sub-packet boundary at bit %d", width, end),
		}
	}
	return buf.ReadUint(offset, width)
}
