// Package markdown exports records as Markdown documents with front
// matter. Each record becomes one .md file: a front matter block built
// from the selected keys, then either a generated body or a rendered
// user template.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/export"
	"git.home.luguber.info/inful/docforge/internal/filename"
	"git.home.luguber.info/inful/docforge/internal/model"
	"git.home.luguber.info/inful/docforge/internal/template"
)

// yamlAvailable reports whether the YAML front matter serializer can be
// used. Overridable in tests to exercise the JSON fallback.
var yamlAvailable = func() bool { return true }

// Options configures the Markdown exporter.
type Options struct {
	// Template holds raw template text. Empty selects direct rendering.
	Template string
	// Strict fails a record whose template references unknown fields.
	Strict bool
	// TOC prepends a contents list built from the body headings.
	TOC bool
	// Summary writes a README.md index after the batch.
	Summary bool
	// Serializer overrides front matter serializer selection.
	Serializer Serializer
}

// Exporter implements export.Exporter for Markdown output.
type Exporter struct {
	opts Options
	ser  Serializer
	tmpl *template.Processor
}

func New(opts Options) *Exporter {
	ser := opts.Serializer
	if ser == nil {
		if yamlAvailable() {
			ser = YAMLSerializer{}
		} else {
			ser = JSONSerializer{}
		}
	}
	return &Exporter{
		opts: opts,
		ser:  ser,
		tmpl: template.NewProcessor(opts.Strict),
	}
}

func (e *Exporter) Format() string    { return "markdown" }
func (e *Exporter) Extension() string { return "md" }

// Serializer exposes the front matter serializer in use.
func (e *Exporter) Serializer() Serializer { return e.ser }

func (e *Exporter) ValidateSettings() error { return nil }

func (e *Exporter) ExportOne(_ context.Context, obj *model.Object, keys []string, path string) error {
	var buf bytes.Buffer

	if err := e.writeFrontMatter(&buf, obj, keys); err != nil {
		return err
	}

	body, err := e.body(obj, keys)
	if err != nil {
		return err
	}
	if e.opts.TOC {
		body = prependTOC(body)
	}
	buf.WriteString(body)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.ExportFailed("markdown", err)
	}
	return nil
}

func (e *Exporter) writeFrontMatter(buf *bytes.Buffer, obj *model.Object, keys []string) error {
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		fields = append(fields, Field{Key: key, Value: v.Any()})
	}
	if len(fields) == 0 {
		return nil
	}

	block, err := e.ser.Serialize(fields)
	if err != nil {
		return errors.ExportFailed("markdown", err)
	}
	opening, closing := e.ser.Delimiters()
	if opening != "" {
		buf.WriteString(opening + "\n")
	}
	buf.Write(block)
	if closing != "" {
		buf.WriteString(closing + "\n")
	}
	buf.WriteString("\n")
	return nil
}

func (e *Exporter) body(obj *model.Object, keys []string) (string, error) {
	if e.opts.Template != "" {
		return e.tmpl.Render(e.opts.Template, obj)
	}
	return renderBody(obj, keys), nil
}

// renderBody produces the default document body: a title heading, a table
// of scalar fields, then one section per nested field.
func renderBody(obj *model.Object, keys []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", export.Title(obj))

	var scalars, containers []string
	for _, key := range keys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		if v.IsScalar() {
			scalars = append(scalars, key)
		} else {
			containers = append(containers, key)
		}
	}

	if len(scalars) > 0 {
		b.WriteString("| Field | Value |\n")
		b.WriteString("| --- | --- |\n")
		for _, key := range scalars {
			v, _ := obj.Get(key)
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(key), escapeCell(v.Format()))
		}
		b.WriteString("\n")
	}

	for _, key := range containers {
		v, _ := obj.Get(key)
		fmt.Fprintf(&b, "## %s\n\n", key)
		writeContainer(&b, v, 0)
		b.WriteString("\n")
	}
	return b.String()
}

func writeContainer(b *strings.Builder, v model.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v.Kind() {
	case model.KindMap:
		sub := v.Object()
		for _, leafKey := range sub.Keys() {
			sv, _ := sub.Value(leafKey)
			if sv.IsScalar() {
				fmt.Fprintf(b, "%s- **%s**: %s\n", indent, leafKey, sv.Format())
				continue
			}
			fmt.Fprintf(b, "%s- **%s**:\n", indent, leafKey)
			writeContainer(b, sv, depth+1)
		}
	case model.KindList:
		for _, item := range v.Items() {
			if item.IsScalar() {
				fmt.Fprintf(b, "%s- %s\n", indent, item.Format())
				continue
			}
			fmt.Fprintf(b, "%s-\n", indent)
			writeContainer(b, item, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s- %s\n", indent, v.Format())
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// prependTOC parses the body and inserts a contents list after the first
// heading, linking every later heading by its anchor.
func prependTOC(body string) string {
	headings := collectHeadings([]byte(body))
	if len(headings) < 2 {
		return body
	}

	var toc strings.Builder
	toc.WriteString("## Contents\n\n")
	for _, h := range headings[1:] {
		fmt.Fprintf(&toc, "- [%s](#%s)\n", h, filename.Slug(h, 0))
	}
	toc.WriteString("\n")

	// Insert after the title heading's trailing blank line.
	idx := strings.Index(body, "\n\n")
	if idx < 0 {
		return toc.String() + body
	}
	return body[:idx+2] + toc.String() + body[idx+2:]
}

func collectHeadings(src []byte) []string {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))
	var headings []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, headingText(h, src))
		}
		return ast.WalkContinue, nil
	})
	return headings
}

func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	return b.String()
}

// WriteSummary writes a README.md index of the batch's successful exports.
func (e *Exporter) WriteSummary(dir string, results []export.Result) error {
	if !e.opts.Summary {
		return nil
	}
	var b strings.Builder
	b.WriteString("# Export Summary\n\n")
	ok, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		ok++
		fmt.Fprintf(&b, "- [%s](%s)\n", r.Filename, filepath.Base(r.OutputPath))
	}
	fmt.Fprintf(&b, "\n%d exported, %d failed.\n", ok, failed)
	return os.WriteFile(filepath.Join(dir, "README.md"), []byte(b.String()), 0o644)
}
