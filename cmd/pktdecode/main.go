package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/bitpacket/internal/config"
	"github.com/danmuck/bitpacket/internal/logging"
	"github.com/danmuck/bitpacket/internal/observability"
	"github.com/danmuck/bitpacket/internal/protocol"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run decodes every message from the positional arguments, or from -in /
// stdin when none are given, and reports one result per message. Positional
// messages and -in together are a usage error.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pktdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config.toml")
	inPath := fs.String("in", "", "input file, one message per line (default stdin; not with positional messages)")
	binary := fs.Bool("binary", false, "inputs are '0'/'1' strings instead of hex")
	tree := fs.Bool("tree", false, "print the decoded packet tree")
	format := fs.String("format", "", "output format: plain|table")
	metricsPath := fs.String("metrics", "", "write Prometheus text metrics to this path")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "pktdecode: %v\n", err)
			return exitUsage
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "binary":
			cfg.Binary = *binary
		case "tree":
			cfg.Tree = *tree
		case "format":
			cfg.Format = strings.ToLower(strings.TrimSpace(*format))
		case "metrics":
			cfg.MetricsTextfile = *metricsPath
		case "debug":
			if *debug {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "pktdecode: %v\n", err)
		return exitUsage
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.ConfigureRuntime(logging.WithLevel(level), logging.WithOutput(stderr))
	logger := logging.Logger()

	lines := fs.Args()
	if len(lines) > 0 && *inPath != "" {
		fmt.Fprintf(stderr, "pktdecode: -in %s conflicts with %d positional message(s)\n", *inPath, len(lines))
		return exitUsage
	}
	if len(lines) == 0 {
		read, err := readInput(*inPath, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "pktdecode: %v\n", err)
			return exitUsage
		}
		lines = read
	}

	dec := protocol.NewDecoder(protocol.Options{
		Limits: cfg.Limits,
		Binary: cfg.Binary,
		Logger: logger,
	})
	report := dec.Batch(lines)

	if err := render(stdout, report, cfg); err != nil {
		fmt.Fprintf(stderr, "pktdecode: %v\n", err)
		return exitUsage
	}

	if cfg.MetricsTextfile != "" {
		if err := writeMetrics(cfg.MetricsTextfile, report); err != nil {
			logger.Error().Err(err).Str("path", cfg.MetricsTextfile).Msg("metrics not written")
			fmt.Fprintf(stderr, "pktdecode: %v\n", err)
			return exitUsage
		}
	}

	if report.Failed > 0 {
		return exitRejected
	}
	return exitOK
}

func readInput(path string, stdin io.Reader) ([]string, error) {
	if path == "" || path == "-" {
		return protocol.ReadMessages(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return protocol.ReadMessages(f)
}

func writeMetrics(path string, report protocol.Report) error {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	m.RecordReport(report)
	return observability.WriteTextfile(path, reg)
}
