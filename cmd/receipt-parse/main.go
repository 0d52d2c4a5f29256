package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/Irina-Igmm/pdf-ocr/internal/extract"
	"github.com/Irina-Igmm/pdf-ocr/internal/normalize"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("receipt-parse")
	var (
		input       = fs.StringLong("input", "-", "Text file to parse, or '-' for stdin")
		langs       = fs.StringLong("lang", "", "Comma-separated locale hints, e.g. 'de,en'")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_PARSE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var hints []string
	for _, l := range strings.Split(*langs, ",") {
		if l = strings.TrimSpace(l); l != "" {
			hints = append(hints, l)
		}
	}

	text, err := readInput(*input)
	if err != nil {
		slog.Error("Failed to read input", "error", err)
		os.Exit(1)
	}

	rec, diags := normalize.Normalize(extract.Parse(text, hints...))
	if diags.CurrencyUnresolved {
		slog.Warn("Currency token did not resolve to an ISO code", "currency", *rec.Transaction.Currency)
	}
	if diags.TotalMismatch {
		slog.Warn("Stated total disagrees with the item sum", "item_sum", diags.ItemSum)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		slog.Error("Failed to encode record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}
