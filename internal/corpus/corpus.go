// Package corpus runs the extractor and scorer over a directory of labeled
// samples and persists evaluation runs. File loading and parallelism live
// here so the core packages stay pure.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Irina-Igmm/pdf-ocr/internal/extract"
	"github.com/Irina-Igmm/pdf-ocr/internal/normalize"
	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
	"github.com/Irina-Igmm/pdf-ocr/internal/scoring"
)

// TextSource resolves the upstream-extracted text for a sample's document.
// OCR and PDF handling happen upstream; this boundary only hands over text.
type TextSource interface {
	// Text returns the extracted text block for the given document path
	Text(pdfPath string) (string, error)
}

// SidecarTextSource reads the extracted text from a .txt file next to the
// source document
type SidecarTextSource struct{}

// Text reads the side-car text file for the document
func (SidecarTextSource) Text(pdfPath string) (string, error) {
	path := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".txt"
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return string(data), nil
}

// LoadSamples reads every *.json label file in dir, sorted by name. Each
// file holds {"pdf_path": ..., "ground_truth": ...}. Malformed files are
// skipped with a warning rather than failing the whole load.
func LoadSamples(dir string) ([]receipt.Sample, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("globbing label files: %w", err)
	}
	sort.Strings(paths)

	samples := make([]receipt.Sample, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable label file", "path", path, "error", err)
			continue
		}
		var sample receipt.Sample
		if err := json.Unmarshal(data, &sample); err != nil {
			slog.Warn("Skipping malformed label file", "path", path, "error", err)
			continue
		}
		if sample.PDFPath == "" {
			slog.Warn("Skipping label file without pdf_path", "path", path)
			continue
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// Result is the evaluation outcome for a single sample
type Result struct {
	PDFPath     string                `json:"pdf_path"`
	Report      scoring.Report        `json:"report"`
	Prediction  *receipt.Record       `json:"prediction,omitempty"`
	Diagnostics normalize.Diagnostics `json:"diagnostics"`
	Elapsed     time.Duration         `json:"elapsed_ns"`
	Err         string                `json:"error,omitempty"`
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Evaluator scores a corpus of labeled samples against the rule-based
// extractor
type Evaluator struct {
	texts      TextSource
	timeSource TimeSource
	match      scoring.MatchConfig
	hints      []string
}

// NewEvaluator creates an Evaluator with the side-car text source and
// default matching thresholds
func NewEvaluator(hints ...string) *Evaluator {
	return NewEvaluatorWithDeps(SidecarTextSource{}, defaultTimeSource{}, scoring.DefaultMatchConfig(), hints...)
}

// NewEvaluatorWithDeps creates an Evaluator with custom dependencies for
// testing
func NewEvaluatorWithDeps(texts TextSource, timeSource TimeSource, match scoring.MatchConfig, hints ...string) *Evaluator {
	return &Evaluator{
		texts:      texts,
		timeSource: timeSource,
		match:      match,
		hints:      hints,
	}
}

// EvaluateSample extracts, normalizes and scores one labeled sample
func (e *Evaluator) EvaluateSample(sample receipt.Sample) Result {
	start := e.timeSource.Now()

	text, err := e.texts.Text(sample.PDFPath)
	if err != nil {
		return Result{PDFPath: sample.PDFPath, Err: err.Error()}
	}

	pred, diags := normalize.Normalize(extract.Parse(text, e.hints...))
	report := scoring.ScoreRecord(pred, &sample.GroundTruth, e.match)

	return Result{
		PDFPath:     sample.PDFPath,
		Report:      report,
		Prediction:  pred,
		Diagnostics: diags,
		Elapsed:     e.timeSource.Now().Sub(start),
	}
}

// Run evaluates every sample, up to workers at a time. Record pairs are
// independent; results land in their sample's slot so the aggregation order
// is fixed and parallel runs equal sequential ones.
func (e *Evaluator) Run(ctx context.Context, samples []receipt.Sample, workers int) ([]Result, scoring.Summary, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sample := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.EvaluateSample(sample)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, scoring.Summary{}, fmt.Errorf("evaluating corpus: %w", err)
	}

	reports := make([]scoring.Report, 0, len(results))
	for _, r := range results {
		if r.Err != "" {
			slog.Warn("Sample skipped", "pdf", r.PDFPath, "error", r.Err)
			continue
		}
		reports = append(reports, r.Report)
	}
	return results, scoring.Aggregate(reports), nil
}
