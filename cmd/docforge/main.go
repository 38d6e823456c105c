package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docforge/internal/config"
	"git.home.luguber.info/inful/docforge/internal/keysel"
	"git.home.luguber.info/inful/docforge/internal/metrics"
	"git.home.luguber.info/inful/docforge/internal/pipeline"
	"git.home.luguber.info/inful/docforge/internal/source"
	"git.home.luguber.info/inful/docforge/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docforge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Export struct {
		Source    string   `short:"s" help:"Source reference (file path or URL), overrides config"`
		Output    string   `short:"o" help:"Output directory, overrides config"`
		Formats   []string `short:"f" help:"Output formats (markdown, pdf, word), overrides config"`
		Keys      string   `short:"k" help:"Key selection: all, none, or a list of names/indices"`
		NameKey   string   `help:"Field used to derive output filenames, overrides config"`
		Delimiter string   `help:"CSV field delimiter, overrides config"`
		Flatten   bool     `help:"Flatten nested structures to dotted keys"`
		Template  string   `short:"t" help:"Markdown template (path or URL), overrides config"`
		Strict    bool     `help:"Fail on template variables missing from a record"`
		Metrics   bool     `help:"Register Prometheus export metrics"`
	} `cmd:"" help:"Export documents from the configured source"`

	Keys struct {
		Source string `short:"s" help:"Source reference (file path or URL), overrides config"`
	} `cmd:"" help:"List the field paths available in the source"`

	Validate struct {
		Source string `short:"s" help:"Source reference (file path or URL), overrides config"`
	} `cmd:"" help:"Check configuration and source accessibility without exporting"`

	Watch struct {
		Source   string        `short:"s" help:"Source reference (local file), overrides config"`
		Debounce time.Duration `help:"Quiet period before re-running" default:"2s"`
	} `cmd:"" help:"Re-run the export whenever the source file changes"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "export":
		err = runExport(ctx, logger)
	case "keys":
		err = runKeys(ctx, logger)
	case "validate":
		err = runValidate(ctx, logger)
	case "watch":
		err = runWatch(ctx, logger)
	default:
		err = fmt.Errorf("unknown command: %s", kctx.Command())
	}
	if err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadSettings(sourceOverride string) (*config.Settings, error) {
	// Without a config file a source flag alone is enough to run.
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) && sourceOverride != "" {
		s := &config.Settings{}
		s.Source.Ref = sourceOverride
		s.ApplyDefaults()
		return s, s.Validate()
	}
	s, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if sourceOverride != "" {
		s.Source.Ref = sourceOverride
	}
	return s, s.Validate()
}

func runExport(ctx context.Context, logger *slog.Logger) error {
	s, err := loadSettings(CLI.Export.Source)
	if err != nil {
		return err
	}
	if CLI.Export.Output != "" {
		s.Output.Directory = CLI.Export.Output
	}
	if len(CLI.Export.Formats) > 0 {
		s.Formats = CLI.Export.Formats
	}
	if CLI.Export.Keys != "" {
		s.Keys = CLI.Export.Keys
	}
	if CLI.Export.NameKey != "" {
		s.Output.FilenameKey = CLI.Export.NameKey
	}
	if CLI.Export.Delimiter != "" {
		s.Source.Delimiter = CLI.Export.Delimiter
	}
	if CLI.Export.Flatten {
		s.Source.Flatten = true
	}
	if CLI.Export.Template != "" {
		s.Markdown.Template = CLI.Export.Template
	}
	if CLI.Export.Strict {
		s.Markdown.Strict = true
	}
	if err := s.Validate(); err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if CLI.Export.Metrics {
		rec = metrics.NewPrometheusRecorder(nil)
	}

	report, err := pipeline.New(s, logger, rec).Run(ctx)
	if err != nil {
		return err
	}
	for _, fr := range report.Batch.Formats {
		if fr.Skipped {
			fmt.Printf("%-10s skipped (%v)\n", fr.Format, fr.SkipErr)
			continue
		}
		fmt.Printf("%-10s %d exported, %d failed\n", fr.Format, fr.Succeeded(), fr.Failed())
	}
	fmt.Printf("output: %s\n", s.Output.Directory)
	return nil
}

func runKeys(ctx context.Context, logger *slog.Logger) error {
	s, err := loadSettings(CLI.Keys.Source)
	if err != nil {
		return err
	}

	coll, _, err := pipeline.New(s, logger, nil).Collect(ctx)
	if err != nil {
		return err
	}
	paths := keysel.Enumerate(coll)
	if len(paths) == 0 {
		fmt.Println("no fields found")
		return nil
	}
	for i, path := range paths {
		example := keysel.Example(coll, path, 40)
		if example != "" {
			fmt.Printf("%3d  %-30s e.g. %s\n", i+1, path, example)
		} else {
			fmt.Printf("%3d  %s\n", i+1, path)
		}
	}
	return nil
}

func runValidate(ctx context.Context, logger *slog.Logger) error {
	s, err := loadSettings(CLI.Validate.Source)
	if err != nil {
		return err
	}

	client := source.NewHTTPClient()
	kind, err := source.Detect(ctx, s.Source.Ref, s.Source.Format, client)
	if err != nil {
		return err
	}
	loader, err := source.New(kind, s.Source.Ref, source.Options{}, client)
	if err != nil {
		return err
	}
	if err := loader.Validate(ctx); err != nil {
		return err
	}
	fmt.Printf("ok: %s (%s)\n", s.Source.Ref, kind)

	exporters, err := pipeline.New(s, logger, nil).Exporters(ctx)
	if err != nil {
		return err
	}
	for _, exp := range exporters {
		if verr := exp.ValidateSettings(); verr != nil {
			fmt.Printf("%-10s unavailable (%v)\n", exp.Format(), verr)
			continue
		}
		fmt.Printf("%-10s ready\n", exp.Format())
	}

	logger.Debug("settings snapshot", slog.String("hash", s.Snapshot()))
	return nil
}

func runWatch(ctx context.Context, logger *slog.Logger) error {
	s, err := loadSettings(CLI.Watch.Source)
	if err != nil {
		return err
	}

	p := pipeline.New(s, logger, nil)
	w, err := watch.New(s.Source.Ref, CLI.Watch.Debounce, logger, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
