// Package pdf exports records as PDF documents using fpdf. Direct mode
// renders a titled field table; template mode renders user template text
// as flowing paragraphs.
package pdf

import (
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/export"
	"git.home.luguber.info/inful/docforge/internal/model"
	"git.home.luguber.info/inful/docforge/internal/template"
)

// Probe checks that PDF rendering is available before a batch starts.
// Overridable in tests to exercise the capability-skip path.
var Probe = func() error { return nil }

const (
	labelWidth = 60.0
	rowHeight  = 8.0
	bodySize   = 11.0
	titleSize  = 16.0
)

// Options configures the PDF exporter.
type Options struct {
	// Template holds raw template text. Empty selects the field table.
	Template string
	// Strict fails a record whose template references unknown fields.
	Strict bool
	// Orientation is "P" (default) or "L".
	Orientation string
	// PageSize defaults to A4.
	PageSize string
}

// Exporter implements export.Exporter for PDF output.
type Exporter struct {
	opts Options
	tmpl *template.Processor
}

func New(opts Options) *Exporter {
	if opts.Orientation == "" {
		opts.Orientation = "P"
	}
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	return &Exporter{opts: opts, tmpl: template.NewProcessor(opts.Strict)}
}

func (e *Exporter) Format() string    { return "pdf" }
func (e *Exporter) Extension() string { return "pdf" }

func (e *Exporter) ValidateSettings() error {
	if err := Probe(); err != nil {
		return errors.CapabilityUnavailable("pdf", "renderer").WithContext("cause", err.Error())
	}
	return nil
}

func (e *Exporter) ExportOne(_ context.Context, obj *model.Object, keys []string, path string) error {
	doc := fpdf.New(e.opts.Orientation, "mm", e.opts.PageSize, "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	title := export.Title(obj)
	doc.SetTitle(tr(title), true)
	doc.SetFont("Helvetica", "B", titleSize)
	doc.CellFormat(0, 12, tr(title), "", 1, "", false, 0, "")
	doc.Ln(4)

	if e.opts.Template != "" {
		body, err := e.tmpl.Render(e.opts.Template, obj)
		if err != nil {
			return err
		}
		doc.SetFont("Helvetica", "", bodySize)
		doc.MultiCell(0, 6, tr(body), "", "", false)
	} else {
		e.writeTable(doc, tr, obj, keys)
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return errors.ExportFailed("pdf", err)
	}
	return nil
}

func (e *Exporter) writeTable(doc *fpdf.Fpdf, tr func(string) string, obj *model.Object, keys []string) {
	doc.SetFont("Helvetica", "B", bodySize)
	doc.CellFormat(labelWidth, rowHeight, "Field", "1", 0, "", false, 0, "")
	doc.CellFormat(0, rowHeight, "Value", "1", 1, "", false, 0, "")

	doc.SetFont("Helvetica", "", bodySize)
	for _, row := range export.FieldRows(obj, keys) {
		doc.CellFormat(labelWidth, rowHeight, tr(row[0]), "1", 0, "", false, 0, "")
		doc.CellFormat(0, rowHeight, tr(row[1]), "1", 1, "", false, 0, "")
	}
}
