// Package pipeline wires the stages of one export run: detect the source,
// load raw records, normalize them into the canonical model, resolve the
// key selection and dispatch the exporters.
package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docforge/internal/config"
	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/export"
	"git.home.luguber.info/inful/docforge/internal/export/markdown"
	"git.home.luguber.info/inful/docforge/internal/export/pdf"
	"git.home.luguber.info/inful/docforge/internal/export/word"
	"git.home.luguber.info/inful/docforge/internal/keysel"
	"git.home.luguber.info/inful/docforge/internal/metrics"
	"git.home.luguber.info/inful/docforge/internal/model"
	"git.home.luguber.info/inful/docforge/internal/normalize"
	"git.home.luguber.info/inful/docforge/internal/source"
	"git.home.luguber.info/inful/docforge/internal/template"
)

// RunReport summarizes one completed run.
type RunReport struct {
	Kind             source.Kind
	Snapshot         string
	Loaded           int
	LoadDropped      int
	Normalized       int
	NormalizeDropped int
	Keys             []string
	Batch            *export.BatchReport
	Elapsed          time.Duration
}

// Pipeline executes export runs for one settings instance.
type Pipeline struct {
	settings *config.Settings
	log      *slog.Logger
	rec      metrics.Recorder
	client   *http.Client
}

func New(settings *config.Settings, log *slog.Logger, rec metrics.Recorder) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Pipeline{
		settings: settings,
		log:      log,
		rec:      rec,
		client:   source.NewHTTPClient(),
	}
}

// Run executes the full pipeline once.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	s := p.settings

	coll, report, err := p.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if coll.Len() == 0 && s.Source.FailOnEmpty {
		return nil, errors.SourceEmpty(s.Source.Ref)
	}

	keys, err := keysel.Resolve(coll, s.Keys)
	if err != nil {
		return nil, err
	}
	report.Keys = keys

	exporters, err := p.Exporters(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := export.Dispatch(ctx, export.Options{
		Exporters:   exporters,
		Collection:  coll,
		Keys:        keys,
		OutputDir:   s.Output.Directory,
		FilenameKey: s.Output.FilenameKey,
		Logger:      p.log,
		Metrics:     p.rec,
	})
	if err != nil {
		return nil, err
	}
	report.Batch = batch
	report.Elapsed = time.Since(start)
	p.rec.ObserveRunDuration(report.Elapsed)
	p.rec.IncRunOutcome(batch.Outcome())

	p.log.Info("run complete",
		slog.String("run_id", batch.RunID),
		slog.String("outcome", batch.Outcome()),
		slog.Int("records", batch.Records),
		slog.Duration("elapsed", report.Elapsed))
	return report, nil
}

// Collect runs the load and normalize stages only, returning the canonical
// collection. The keys command uses it to enumerate fields without
// exporting anything.
func (p *Pipeline) Collect(ctx context.Context) (*model.Collection, *RunReport, error) {
	s := p.settings
	report := &RunReport{Snapshot: s.Snapshot()}

	p.log.Info("run starting",
		slog.String("source", s.Source.Ref),
		slog.String("snapshot", shortHash(report.Snapshot)))

	kind, err := source.Detect(ctx, s.Source.Ref, s.Source.Format, p.client)
	if err != nil {
		return nil, nil, err
	}
	report.Kind = kind
	p.log.Debug("source detected", slog.String("kind", string(kind)))

	loader, err := source.New(kind, s.Source.Ref, loaderOptions(s), p.client)
	if err != nil {
		return nil, nil, err
	}
	if err := loader.Validate(ctx); err != nil {
		return nil, nil, err
	}

	loadStart := time.Now()
	res, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	p.rec.ObserveLoadDuration(string(kind), time.Since(loadStart))
	p.rec.IncRecordsLoaded(string(kind), len(res.Records))
	p.rec.IncRecordsDropped(string(kind), len(res.Dropped))
	report.Loaded = len(res.Records)
	report.LoadDropped = len(res.Dropped)
	p.log.Info("source loaded",
		slog.Int("records", len(res.Records)),
		slog.Int("dropped", len(res.Dropped)))

	norm := normalize.New(normalize.Options{
		Flatten:       s.Source.Flatten,
		Separator:     s.Source.NestedSeparator,
		TrimKeys:      s.Source.TrimKeys,
		Aliases:       s.Source.Aliases,
		CoerceStrings: kind.Tabular(),
	})
	coll, nr := norm.Collection(res)
	p.rec.IncRecordsDropped(string(kind), len(nr.Dropped))
	report.Normalized = nr.Normalized
	report.NormalizeDropped = len(nr.Dropped)
	for _, d := range nr.Dropped {
		p.log.Warn("record dropped",
			slog.Int("record", d.Index),
			slog.String("reason", d.Reason))
	}

	return coll, report, nil
}

func loaderOptions(s *config.Settings) source.Options {
	delim := ','
	if s.Source.Delimiter != "" {
		delim = []rune(s.Source.Delimiter)[0]
	}
	return source.Options{
		Delimiter:       delim,
		NestedSeparator: s.Source.NestedSeparator,
		Method:          s.Source.API.Method,
		Headers:         s.Source.API.Headers,
		Query:           s.Source.API.Query,
		Body:            s.Source.API.Body,
	}
}

// Exporters assembles the configured format backends, loading template
// text up front so a bad template fails the run before output is written.
func (p *Pipeline) Exporters(ctx context.Context) ([]export.Exporter, error) {
	s := p.settings
	out := make([]export.Exporter, 0, len(s.Formats))
	for _, format := range s.Formats {
		switch format {
		case "markdown":
			tmpl, err := p.templateText(ctx, s.Markdown.Template)
			if err != nil {
				return nil, err
			}
			var ser markdown.Serializer
			if s.Markdown.FrontMatter == "json" {
				ser = markdown.JSONSerializer{}
			}
			out = append(out, markdown.New(markdown.Options{
				Template:   tmpl,
				Strict:     s.Markdown.Strict,
				TOC:        s.Markdown.TOC,
				Summary:    s.Markdown.Summary,
				Serializer: ser,
			}))
		case "pdf":
			tmpl, err := p.templateText(ctx, s.PDF.Template)
			if err != nil {
				return nil, err
			}
			out = append(out, pdf.New(pdf.Options{
				Template:    tmpl,
				Strict:      s.PDF.Strict,
				Orientation: s.PDF.Orientation,
				PageSize:    s.PDF.PageSize,
			}))
		case "word":
			out = append(out, word.New(word.Options{TemplatePath: s.Word.Template}))
		default:
			return nil, errors.ValidationFailed("formats", "unknown format "+format)
		}
	}
	return out, nil
}

func (p *Pipeline) templateText(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	return template.LoadSource(ctx, ref, p.client)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
