package source

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// CSVLoader parses delimiter-configurable tabular text. The header row
// defines the field names; each subsequent row becomes one record. Header
// names containing the nested separator are emitted as canonical dotted
// field paths in header order, so the normalizer can rebuild the nested
// structure with last-write-wins merging while preserving column order.
type CSVLoader struct {
	ref    string
	kind   Kind
	opts   Options
	client *http.Client
}

func (l *CSVLoader) Validate(ctx context.Context) error {
	return validateRef(ctx, l.ref, l.kind.Remote(), l.client)
}

func (l *CSVLoader) Load(ctx context.Context) (*Result, error) {
	body, err := openSource(ctx, l.ref, l.kind.Remote(), l.client)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	reader := csv.NewReader(body)
	if l.opts.Delimiter != 0 {
		reader.Comma = l.opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.CategoryParse, errors.SeverityFatal, "csv source has no header row").
			WithContext("source", l.ref)
	}
	if err != nil {
		return nil, errors.ParseFailed(l.ref, err)
	}
	paths := l.headerPaths(header)

	result := &Result{Kind: l.kind, Source: l.ref}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally invalid row: dropped and counted, load continues.
			result.Dropped = append(result.Dropped, Dropped{Index: row - 1, Reason: err.Error()})
			continue
		}
		fields := make(map[string]any, len(paths))
		order := make([]string, 0, len(paths))
		for i, p := range paths {
			if p == "" || i >= len(record) {
				continue
			}
			if _, dup := fields[p]; !dup {
				order = append(order, p)
			}
			fields[p] = record[i] // duplicate headers: last column wins
		}
		result.Records = append(result.Records, Record{Fields: fields, Order: order, PathKeys: true})
	}
	return result, nil
}

// headerPaths converts raw header names into canonical dotted field paths.
func (l *CSVLoader) headerPaths(header []string) []string {
	sep := l.opts.NestedSeparator
	if sep == "" {
		sep = "."
	}
	out := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if sep != "." && strings.Contains(name, sep) {
			name = strings.ReplaceAll(name, sep, ".")
		}
		out[i] = name
	}
	return out
}
