package packet

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/danmuck/bitpacket/internal/protocol/bits"
)

// Bit-string builders for hand-assembled fixtures.

func bin(v uint64, width int) string {
	return fmt.Sprintf("%0*b", width, v)
}

func header(version, typeID uint8) string {
	return bin(uint64(version), VersionBits) + bin(uint64(typeID), TypeBits)
}

func lit(version uint8, value uint64) string {
	var nibbles []uint8
	for {
		nibbles = append([]uint8{uint8(value & groupDataMask)}, nibbles...)
		value >>= GroupDataBits
		if value == 0 {
			break
		}
	}
	return litNibbles(version, nibbles)
}

func litNibbles(version uint8, nibbles []uint8) string {
	var sb strings.Builder
	sb.WriteString(header(version, TypeLiteral))
	for i, n := range nibbles {
		if i == len(nibbles)-1 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
		sb.WriteString(bin(uint64(n), GroupDataBits))
	}
	return sb.String()
}

func opLen(version uint8, op Op, children ...string) string {
	body := strings.Join(children, "")
	return header(version, uint8(op)) + "0" + bin(uint64(len(body)), LengthBits) + body
}

func opCount(version uint8, op Op, children ...string) string {
	return header(version, uint8(op)) + "1" + bin(uint64(len(children)), CountBits) + strings.Join(children, "")
}

func mustBinary(t *testing.T, s string) bits.Buffer {
	t.Helper()
	buf, err := bits.FromBinary(s)
	if err != nil {
		t.Fatalf("from binary: %v", err)
	}
	return buf
}

func mustHex(t *testing.T, s string) bits.Buffer {
	t.Helper()
	buf, err := bits.FromHex(s)
	if err != nil {
		t.Fatalf("from hex: %v", err)
	}
	return buf
}

func mustDecode(t *testing.T, buf bits.Buffer) (Packet, int) {
	t.Helper()
	p, next, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p, next
}

var packetCmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
	cmpopts.EquateEmpty(),
}

func literal(version uint8, value int64, start, end int) Packet {
	return Packet{
		Header: Header{Version: version, TypeID: TypeLiteral},
		Kind:   KindLiteral,
		Span:   Span{Start: start, End: end},
		Value:  big.NewInt(value),
	}
}
