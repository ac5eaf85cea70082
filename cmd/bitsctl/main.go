package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bitsctl/internal/config"
	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/server"
	"github.com/danmuck/bitsctl/internal/transmission"
)

type options struct {
	mode   string
	config string
	hex    string
	input  string
	addr   string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.mode, "mode", "decode", "mode: decode | serve")
	flag.StringVar(&opts.config, "config", "", "path to a bitsctl TOML config")
	flag.StringVar(&opts.hex, "hex", "", "transmission as a hex string")
	flag.StringVar(&opts.input, "input", "", "file holding the transmission, - for stdin")
	flag.StringVar(&opts.addr, "addr", "", "listen address override (serve mode)")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			fatalf("%v", err)
		}
		cfg = loaded
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	logger := observability.InitLogger("bitsctl", cfg.Log.Level)
	decoder := transmission.NewDecoder(cfg.Decode.Limits(), logger)

	switch opts.mode {
	case "decode":
		hex, err := readTransmission(opts, os.Stdin)
		if err != nil {
			fatalf("%v", err)
		}
		report, err := decoder.Decode(hex)
		if err != nil {
			fatalf("%v", err)
		}
		if err := printReport(os.Stdout, report); err != nil {
			fatalf("%v", err)
		}
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.New(cfg.Server, decoder, logger).Serve(ctx); err != nil {
			log.Fatal().Err(err).Msg("decode server failed")
		}
	default:
		fatalf("unknown mode %q (supported: decode, serve)", opts.mode)
	}
}

// readTransmission resolves the hex string from -hex, -input or stdin.
func readTransmission(opts options, stdin io.Reader) (string, error) {
	if opts.hex != "" && opts.input != "" {
		return "", fmt.Errorf("use only one of -hex and -input")
	}
	if opts.hex != "" {
		return opts.hex, nil
	}

	var (
		data []byte
		err  error
	)
	switch opts.input {
	case "", "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(opts.input)
	}
	if err != nil {
		return "", fmt.Errorf("read transmission: %w", err)
	}
	hex := strings.TrimSpace(string(data))
	if hex == "" {
		return "", fmt.Errorf("empty transmission")
	}
	return hex, nil
}

func printReport(w io.Writer, r transmission.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", r.ID)
	fmt.Fprintf(tw, "version_sum\t%d\n", r.VersionSum)
	fmt.Fprintf(tw, "value\t%d\n", r.Value)
	fmt.Fprintf(tw, "packets\t%d\n", r.Packets)
	fmt.Fprintf(tw, "parse\t%s\n", r.ParseTime)
	fmt.Fprintf(tw, "sum\t%s\n", r.SumTime)
	fmt.Fprintf(tw, "eval\t%s\n", r.EvalTime)
	fmt.Fprintf(tw, "total\t%s\n", r.Total())
	return tw.Flush()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "bitsctl: "+format+"\n", args...)
	os.Exit(1)
}
