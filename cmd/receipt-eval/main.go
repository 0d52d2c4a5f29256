package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/Irina-Igmm/pdf-ocr/internal/corpus"
	"github.com/Irina-Igmm/pdf-ocr/internal/scoring"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("receipt-eval")
	var (
		gtDir       = fs.StringLong("gt-dir", "evaluation/ground_truth", "Directory of ground truth label files (*.json)")
		dbPath      = fs.StringLong("db", "", "Optional BoltDB path to persist the evaluation run")
		langs       = fs.StringLong("lang", "", "Comma-separated locale hints, e.g. 'de,en'")
		workers     = fs.IntLong("workers", 4, "Number of samples to evaluate in parallel")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_EVAL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	hints := splitHints(*langs)

	slog.Info("Loading ground truth labels...", "dir", *gtDir)
	samples, err := corpus.LoadSamples(*gtDir)
	if err != nil {
		slog.Error("Failed to load labels", "error", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		slog.Error("No labeled samples found", "dir", *gtDir)
		os.Exit(1)
	}
	slog.Info("Loaded labels", "count", len(samples))

	evaluator := corpus.NewEvaluator(hints...)
	results, summary, err := evaluator.Run(context.Background(), samples, *workers)
	if err != nil {
		slog.Error("Evaluation failed", "error", err)
		os.Exit(1)
	}

	printSummary(summary)

	if *dbPath != "" {
		store, err := corpus.NewBoltStore(*dbPath)
		if err != nil {
			slog.Error("Failed to open run store", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		run := corpus.NewRun(hints, summary, results)
		if err := store.SaveRun(run); err != nil {
			slog.Error("Failed to save run", "error", err)
			os.Exit(1)
		}
		slog.Info("Run saved", "id", run.ID, "db", *dbPath)
	}
}

func splitHints(langs string) []string {
	var hints []string
	for _, l := range strings.Split(langs, ",") {
		if l = strings.TrimSpace(l); l != "" {
			hints = append(hints, l)
		}
	}
	return hints
}

func printSummary(s scoring.Summary) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 47))
	fmt.Printf("  Corpus evaluation (%d receipts)\n", s.Samples)
	fmt.Printf("%s\n", strings.Repeat("=", 47))
	fmt.Printf("  %-25s %15s\n", "Field", "Avg Similarity")
	fmt.Printf("  %s\n", strings.Repeat("-", 41))
	fmt.Printf("  %-25s %14.1f%%\n", "Provider Name", 100*s.ProviderName)
	fmt.Printf("  %-25s %14.1f%%\n", "Provider Address", 100*s.ProviderAddress)
	fmt.Printf("  %-25s %14.1f%%\n", "VAT Number", 100*s.VATNumber)
	fmt.Printf("  %-25s %14.1f%%\n", "Currency", 100*s.Currency)
	fmt.Printf("  %-25s %14.1f%%\n", "Total Amount", 100*s.TotalAmount)
	fmt.Printf("  %-25s %14.1f%%\n", "VAT Info", 100*s.VAT)
	fmt.Printf("  %-25s %14.1f%%\n", "Items Precision", 100*s.ItemsPrecision)
	fmt.Printf("  %-25s %14.1f%%\n", "Items Recall", 100*s.ItemsRecall)
	fmt.Printf("  %-25s %14.1f%%\n", "Items F1", 100*s.ItemsF1)
}
