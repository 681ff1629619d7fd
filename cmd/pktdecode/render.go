package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/danmuck/bitpacket/internal/config"
	"github.com/danmuck/bitpacket/internal/protocol"
	"github.com/danmuck/bitpacket/internal/protocol/packet"
)

func render(w io.Writer, report protocol.Report, cfg config.Config) error {
	if cfg.Format == config.FormatTable {
		return renderTable(w, report, cfg.Tree)
	}
	return renderPlain(w, report, cfg.Tree)
}

func renderPlain(w io.Writer, report protocol.Report, tree bool) error {
	for _, o := range report.Outcomes {
		if o.Err != nil {
			if _, err := fmt.Fprintf(w, "line=%d error=%s: %v\n", o.Line, protocol.Classify(o.Err), o.Err); err != nil {
				return err
			}
			continue
		}
		r := o.Result
		if _, err := fmt.Fprintf(w, "line=%d versions=%d value=%s bits=%d\n", o.Line, r.VersionSum, r.Value, r.Bits); err != nil {
			return err
		}
		if tree {
			if _, err := io.WriteString(w, indent(packet.Format(r.Root), "  ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderTable(w io.Writer, report protocol.Report, tree bool) error {
	data := pterm.TableData{{"line", "versions", "value", "bits", "packets", "error"}}
	for _, o := range report.Outcomes {
		line := strconv.Itoa(o.Line)
		if o.Err != nil {
			data = append(data, []string{line, "", "", "", "", protocol.Classify(o.Err) + ": " + o.Err.Error()})
			continue
		}
		r := o.Result
		data = append(data, []string{
			line,
			strconv.FormatUint(r.VersionSum, 10),
			r.Value.String(),
			strconv.Itoa(r.Bits),
			strconv.Itoa(r.Packets),
			"",
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if !tree {
		return nil
	}
	for _, o := range report.Outcomes {
		if o.Err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "line %d\n%s", o.Line, indent(packet.Format(o.Result.Root), "  ")); err != nil {
			return err
		}
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(l)
	}
	return sb.String()
}
