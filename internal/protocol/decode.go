package protocol

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/bitpacket/internal/protocol/bits"
	"github.com/danmuck/bitpacket/internal/protocol/packet"
)

// MaxLineBytes bounds a single input line read by ReadMessages.
const MaxLineBytes = 16 * 1024 * 1024

// Result is everything one decode yields for a message.
type Result struct {
	Value      *big.Int
	VersionSum uint64
	Bits       int // offset just past the outermost packet
	Packets    int
	Root       packet.Packet
}

// Uint64 returns the evaluated value, failing with ErrOverflow when it needs
// more than 64 bits.
func (r Result) Uint64() (uint64, error) {
	return packet.Uint64(r.Value)
}

// Options configures a Decoder.
type Options struct {
	Limits packet.Limits
	Binary bool // inputs are '0'/'1' strings instead of hex
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Limits: packet.DefaultLimits(),
		Logger: zerolog.Nop(),
	}
}

// Decoder runs the decode-and-evaluate pipeline. It keeps no state between
// messages.
type Decoder struct {
	opts    Options
	packets *packet.Decoder
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts, packets: packet.NewDecoder(opts.Limits)}
}

// DecodeAndEvaluate decodes one hex message and returns its evaluated value
// and version sum.
func DecodeAndEvaluate(hex string) (Result, error) {
	return NewDecoder(DefaultOptions()).Run(hex)
}

// Run decodes and evaluates one message given as text.
func (d *Decoder) Run(input string) (Result, error) {
	buf, err := d.parse(input)
	if err != nil {
		return Result{}, fmt.Errorf("parse input: %w", err)
	}
	return d.RunBuffer(buf)
}

// RunBuffer decodes and evaluates the outermost packet of buf. Bits after the
// packet are padding and ignored.
func (d *Decoder) RunBuffer(buf bits.Buffer) (Result, error) {
	root, next, err := d.packets.DecodeAt(buf, 0)
	if err != nil {
		return Result{}, fmt.Errorf("decode packet: %w", err)
	}
	value, err := packet.Evaluate(root)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate packet: %w", err)
	}
	return Result{
		Value:      value,
		VersionSum: packet.SumVersions(root),
		Bits:       next,
		Packets:    packet.Count(root),
		Root:       root,
	}, nil
}

func (d *Decoder) parse(input string) (bits.Buffer, error) {
	if d.opts.Binary {
		return bits.FromBinary(input)
	}
	return bits.FromHex(input)
}

// Outcome is the result of one batch line. Err is set when the message was
// rejected; Result is then the zero value.
type Outcome struct {
	Line   int
	Input  string
	Result Result
	Err    error
}

// Report collects the outcomes of one batch run.
type Report struct {
	RunID    string
	Outcomes []Outcome
	Failed   int
}

// Batch runs every message in lines. Blank lines and lines starting with '#'
// are skipped. A rejected message is recorded and the batch continues.
func (d *Decoder) Batch(lines []string) Report {
	report := Report{RunID: uuid.NewString()}
	log := d.opts.Logger.With().Str("run_id", report.RunID).Logger()

	for i, raw := range lines {
		input := bits.TrimInput(raw)
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		res, err := d.Run(input)
		report.Outcomes = append(report.Outcomes, Outcome{Line: i + 1, Input: input, Result: res, Err: err})
		if err != nil {
			report.Failed++
			log.Warn().Err(err).Int("line", i+1).Str("class", Classify(err)).Msg("message rejected")
			continue
		}
		log.Debug().
			Int("line", i+1).
			Uint64("versions", res.VersionSum).
			Str("value", res.Value.String()).
			Int("bits", res.Bits).
			Int("packets", res.Packets).
			Msg("message decoded")
	}

	log.Info().Int("messages", len(report.Outcomes)).Int("failed", report.Failed).Msg("batch complete")
	return report
}

// ReadMessages splits r into lines, one message per line.
func ReadMessages(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	return lines, nil
}
