// Package word exports records as Word documents. Direct mode builds a
// titled field listing with go-docx; template mode renders a .docx
// stencil template with the record as template data.
package word

import (
	"context"
	"io"
	"os"

	"github.com/benjaminschreck/go-stencil/pkg/stencil"
	"github.com/fumiama/go-docx"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/export"
	"git.home.luguber.info/inful/docforge/internal/model"
)

// Probe checks that Word rendering is available before a batch starts.
// Overridable in tests to exercise the capability-skip path.
var Probe = func() error { return nil }

// Options configures the Word exporter.
type Options struct {
	// TemplatePath names a .docx stencil template. Empty selects the
	// direct field listing.
	TemplatePath string
}

// Exporter implements export.Exporter for Word output.
type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

func (e *Exporter) Format() string    { return "word" }
func (e *Exporter) Extension() string { return "docx" }

func (e *Exporter) ValidateSettings() error {
	if err := Probe(); err != nil {
		return errors.CapabilityUnavailable("word", "renderer").WithContext("cause", err.Error())
	}
	if e.opts.TemplatePath != "" {
		if _, err := os.Stat(e.opts.TemplatePath); err != nil {
			return errors.ValidationFailed("word.template", "template file not readable: "+e.opts.TemplatePath)
		}
	}
	return nil
}

func (e *Exporter) ExportOne(_ context.Context, obj *model.Object, keys []string, path string) error {
	if e.opts.TemplatePath != "" {
		return e.renderTemplate(obj, path)
	}
	return e.renderDirect(obj, keys, path)
}

func (e *Exporter) renderTemplate(obj *model.Object, path string) error {
	tmpl, err := stencil.PrepareFile(e.opts.TemplatePath)
	if err != nil {
		return errors.TemplateFailed(e.opts.TemplatePath, err)
	}
	defer func() { _ = tmpl.Close() }()

	out, err := tmpl.Render(stencil.TemplateData(obj.Any()))
	if err != nil {
		return errors.TemplateFailed(e.opts.TemplatePath, err)
	}
	data, err := io.ReadAll(out)
	if err != nil {
		return errors.ExportFailed("word", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.ExportFailed("word", err)
	}
	return nil
}

func (e *Exporter) renderDirect(obj *model.Object, keys []string, path string) error {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.AddText(export.Title(obj)).Size("32").Bold()

	for _, row := range export.FieldRows(obj, keys) {
		para := doc.AddParagraph()
		para.AddText(row[0] + ": ").Bold()
		para.AddText(row[1])
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.ExportFailed("word", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := doc.WriteTo(f); err != nil {
		return errors.ExportFailed("word", err)
	}
	return nil
}
