package packet

import (
	"fmt"
	"strings"
)

// SumVersions returns the version of p plus the versions of all packets
// nested under it.
func SumVersions(p Packet) uint64 {
	sum := uint64(p.Header.Version)
	for _, child := range p.Children {
		sum += SumVersions(child)
	}
	return sum
}

// Walk calls fn for p and every nested packet in decode order. depth is 0
// for p itself.
func Walk(p Packet, fn func(p Packet, depth int)) {
	walk(p, 0, fn)
}

func walk(p Packet, depth int, fn func(Packet, int)) {
	fn(p, depth)
	for _, child := range p.Children {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of packets in the tree rooted at p.
func Count(p Packet) int {
	n := 0
	Walk(p, func(Packet, int) { n++ })
	return n
}

// Format renders the tree as one indented line per packet.
func Format(p Packet) string {
	var sb strings.Builder
	Walk(p, func(p Packet, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		switch p.Kind {
		case KindLiteral:
			fmt.Fprintf(&sb, "v%d literal %s", p.Header.Version, p.Value)
		default:
			fmt.Fprintf(&sb, "v%d %s %s=%d", p.Header.Version, p.Op, p.Mode, p.Extent)
		}
		fmt.Fprintf(&sb, " [%d,%d)\n", p.Span.Start, p.Span.End)
	})
	return sb.String()
}
