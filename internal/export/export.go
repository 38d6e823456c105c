// Package export runs document exporters over a record collection. Each
// output format implements Exporter; Dispatch fans a batch out to every
// requested format, skipping formats whose rendering capability is
// unavailable and recovering per record so one bad record never aborts
// the batch.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/filename"
	"git.home.luguber.info/inful/docforge/internal/metrics"
	"git.home.luguber.info/inful/docforge/internal/model"
)

// Exporter renders single records into one output format.
type Exporter interface {
	// Format is the format name used in reports and logs ("markdown", "pdf", "word").
	Format() string
	// Extension is the output file extension without the dot.
	Extension() string
	// ValidateSettings reports configuration or capability problems before
	// any record is processed. A CategoryCapability error marks the format
	// as skippable rather than fatal.
	ValidateSettings() error
	// ExportOne writes one record to path. keys lists the resolved field
	// paths to include, in selection order.
	ExportOne(ctx context.Context, obj *model.Object, keys []string, path string) error
}

// Summarizer is an optional Exporter extension. When implemented, Dispatch
// calls WriteSummary once per format after all records are exported.
type Summarizer interface {
	WriteSummary(dir string, results []Result) error
}

// Result records the outcome of exporting one record.
type Result struct {
	Index      int
	Filename   string
	OutputPath string
	Duration   time.Duration
	Err        error
}

// FormatReport aggregates the results of one format over a batch.
type FormatReport struct {
	Format  string
	Skipped bool
	SkipErr error
	Results []Result
}

func (fr FormatReport) Succeeded() int {
	n := 0
	for _, r := range fr.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func (fr FormatReport) Failed() int {
	return len(fr.Results) - fr.Succeeded()
}

// BatchReport describes one export run across all requested formats.
type BatchReport struct {
	RunID     string
	OutputDir string
	Records   int
	Started   time.Time
	Elapsed   time.Duration
	Formats   []FormatReport
}

// Outcome classifies the run as success, partial or failed.
func (b *BatchReport) Outcome() string {
	succeeded, failed := 0, 0
	for _, fr := range b.Formats {
		if fr.Skipped {
			continue
		}
		succeeded += fr.Succeeded()
		failed += fr.Failed()
	}
	switch {
	case failed == 0:
		return "success"
	case succeeded == 0:
		return "failed"
	default:
		return "partial"
	}
}

// Options configures one Dispatch run.
type Options struct {
	Exporters   []Exporter
	Collection  *model.Collection
	Keys        []string
	OutputDir   string
	FilenameKey string
	Logger      *slog.Logger
	Metrics     metrics.Recorder
}

// Dispatch exports every record of the collection through every exporter.
// Formats whose ValidateSettings returns a capability error are skipped
// with a warning; any other validation error fails the run before output
// is written.
func Dispatch(ctx context.Context, opts Options) (*BatchReport, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	report := &BatchReport{
		RunID:     uuid.NewString(),
		OutputDir: opts.OutputDir,
		Records:   opts.Collection.Len(),
		Started:   time.Now(),
	}
	rec.SetBatchSize(report.Records)

	// Validate everything up front so a fatal misconfiguration never
	// leaves a half-written output directory.
	skipped := make(map[string]error)
	for _, exp := range opts.Exporters {
		if err := exp.ValidateSettings(); err != nil {
			if errors.IsCategory(err, errors.CategoryCapability) {
				log.Warn("format unavailable, skipping",
					slog.String("run_id", report.RunID),
					slog.String("format", exp.Format()),
					slog.String("reason", err.Error()))
				skipped[exp.Format()] = err
				continue
			}
			return nil, err
		}
	}

	// Create the output directory only when at least one format will run.
	if len(skipped) < len(opts.Exporters) {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, errors.OutputDirError(opts.OutputDir, err)
		}
	}

	for _, exp := range opts.Exporters {
		if skipErr, ok := skipped[exp.Format()]; ok {
			report.Formats = append(report.Formats, FormatReport{
				Format:  exp.Format(),
				Skipped: true,
				SkipErr: skipErr,
			})
			rec.IncExportResult(exp.Format(), metrics.ResultSkipped)
			continue
		}

		namer := filename.New(opts.FilenameKey)
		results := ExportMany(ctx, exp, opts.Collection, opts.Keys, opts.OutputDir, namer)
		for _, r := range results {
			rec.ObserveExportDuration(exp.Format(), r.Duration)
			if r.Err != nil {
				rec.IncExportResult(exp.Format(), metrics.ResultFailed)
				log.Error("record export failed",
					slog.String("run_id", report.RunID),
					slog.String("format", exp.Format()),
					slog.Int("record", r.Index),
					slog.Any("error", r.Err))
				continue
			}
			rec.IncExportResult(exp.Format(), metrics.ResultSuccess)
			log.Debug("record exported",
				slog.String("run_id", report.RunID),
				slog.String("format", exp.Format()),
				slog.String("path", r.OutputPath))
		}
		report.Formats = append(report.Formats, FormatReport{
			Format:  exp.Format(),
			Results: results,
		})

		if s, ok := exp.(Summarizer); ok {
			if err := s.WriteSummary(opts.OutputDir, results); err != nil {
				log.Warn("summary write failed",
					slog.String("run_id", report.RunID),
					slog.String("format", exp.Format()),
					slog.Any("error", err))
			}
		}
	}

	report.Elapsed = time.Since(report.Started)
	return report, nil
}

// ExportMany runs one exporter over every record in source order. A failing
// or panicking record produces a failed Result; the remaining records are
// still exported. The shared namer guarantees unique filenames per format.
func ExportMany(ctx context.Context, exp Exporter, coll *model.Collection, keys []string, outDir string, namer *filename.Generator) []Result {
	results := make([]Result, 0, coll.Len())
	for i, obj := range coll.Objects() {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Index: i, Err: errors.ExportFailed(exp.Format(), err)})
			continue
		}
		name := namer.Name(obj, i)
		path := filepath.Join(outDir, name+"."+exp.Extension())
		start := time.Now()
		err := exportOne(ctx, exp, obj, keys, path)
		results = append(results, Result{
			Index:      i,
			Filename:   name,
			OutputPath: path,
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	return results
}

func exportOne(ctx context.Context, exp Exporter, obj *model.Object, keys []string, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.ExportFailed(exp.Format(), fmt.Errorf("panic: %v", r))
		}
	}()
	return exp.ExportOne(ctx, obj, keys, path)
}
