package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPositionalMessages(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"D2FE28", "38006F45291200"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr=%s", code, stderr.String())
	}
	want := "line=1 versions=6 value=2021 bits=21\n" +
		"line=2 versions=9 value=1 bits=49\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunStdinReportsRejectedLines(t *testing.T) {
	in := "EE00D40C823060\n\nD2FE\n9C0141080250320F1802104A08\n"
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(in), &stdout, &stderr)
	if code != exitRejected {
		t.Fatalf("expected exit %d, got %d", exitRejected, code)
	}
	out := stdout.String()
	for _, want := range []string{
		"line=1 versions=14 value=3 bits=51\n",
		"line=3 error=truncated:",
		"line=4 versions=20 value=1 bits=102\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestRunTree(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-tree", "38006F45291200"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr=%s", code, stderr.String())
	}
	want := "line=1 versions=9 value=1 bits=49\n" +
		"  v1 lt length=27 [0,49)\n" +
		"    v6 literal 10 [22,33)\n" +
		"    v2 literal 20 [33,49)\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunBinaryFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-binary", "110100101111111000101000"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr=%s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "line=1 versions=6 value=2021") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}

func TestRunTableFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "table", "C200B40A82", "04005AC33890"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d, stderr=%s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"versions", "54", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table:\n%s", want, out)
		}
	}
}

func TestRunConfigAndMetrics(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "pktdecode.prom")
	cfgPath := filepath.Join(dir, "config.toml")
	body := "max_literal_groups = 2\nmetrics_textfile = \"" + filepath.ToSlash(metrics) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "D2FE28", "EE00D40C823060"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitRejected {
		t.Fatalf("expected exit %d, got %d", exitRejected, code)
	}
	if !strings.Contains(stdout.String(), "line=1 error=limit:") {
		t.Fatalf("expected limit rejection, got:\n%s", stdout.String())
	}

	raw, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `pktdecode_messages_total{result="limit"} 1`) ||
		!strings.Contains(text, `pktdecode_messages_total{result="ok"} 1`) {
		t.Fatalf("unexpected metrics:\n%s", text)
	}
}

func TestRunUsageErrors(t *testing.T) {
	cases := [][]string{
		{"-format", "json", "D2FE28"},
		{"-config", filepath.Join(t.TempDir(), "missing.toml")},
		{"-in", filepath.Join(t.TempDir(), "missing.txt")},
		{"-no-such-flag"},
		{"-in", filepath.Join(t.TempDir(), "messages.txt"), "D2FE28"},
	}
	for _, args := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(args, strings.NewReader(""), &stdout, &stderr); code != exitUsage {
			t.Fatalf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
	}
}

func TestRunMetricsWriteFailure(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "missing", "pktdecode.prom")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-metrics", metrics, "D2FE28"}, strings.NewReader(""), &stdout, &stderr)
	if code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.HasPrefix(stdout.String(), "line=1 versions=6 value=2021") {
		t.Fatalf("results must still be printed, got %q", stdout.String())
	}
	if _, err := os.Stat(metrics); err == nil {
		t.Fatalf("metrics file unexpectedly written")
	}
}
