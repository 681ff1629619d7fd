package protocol

import (
	"errors"

	"github.com/danmuck/bitpacket/internal/protocol/bits"
	"github.com/danmuck/bitpacket/internal/protocol/packet"
)

var (
	ErrFormat     = bits.ErrFormat
	ErrTruncated  = bits.ErrTruncated
	ErrStructural = packet.ErrStructural
	ErrOverflow   = packet.ErrOverflow
	ErrLimit      = packet.ErrLimit
)

// Error classes reported by Classify.
const (
	ClassOK         = "ok"
	ClassFormat     = "format"
	ClassTruncated  = "truncated"
	ClassStructural = "structural"
	ClassOverflow   = "overflow"
	ClassLimit      = "limit"
	ClassUnknown    = "unknown"
)

// Classify maps err to a stable label suitable for logs and metric labels.
func Classify(err error) string {
	switch {
	case err == nil:
		return ClassOK
	case errors.Is(err, ErrFormat):
		return ClassFormat
	case errors.Is(err, ErrTruncated):
		return ClassTruncated
	case errors.Is(err, ErrStructural):
		return ClassStructural
	case errors.Is(err, ErrOverflow):
		return ClassOverflow
	case errors.Is(err, ErrLimit):
		return ClassLimit
	default:
		return ClassUnknown
	}
}
