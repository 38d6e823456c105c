package source

import (
	"context"
	"io"
	"net/http"
	"os"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// Options carries loader configuration shared across source kinds.
type Options struct {
	// Delimiter is the CSV field separator (default ',').
	Delimiter rune
	// NestedSeparator splits CSV header names into nested field paths
	// (default "."). Headers without the separator stay flat.
	NestedSeparator string
	// API request shape; ignored by file loaders.
	Method  string
	Headers map[string]string
	Query   map[string]string
	Body    string
}

// Record is one raw record as produced by a loader. For tabular sources
// the keys are canonical dotted field paths (PathKeys true, Order preserves
// the source column order); for JSON sources the keys are literal decoded
// field names and nesting lives in the values.
type Record struct {
	Fields   map[string]any
	Order    []string
	PathKeys bool
}

// Dropped reports a malformed record that was skipped during loading.
type Dropped struct {
	Index  int
	Reason string
}

// Result is the outcome of one Load call: the parsed records in source
// order plus an accounting of rows that could not be parsed. An empty
// record list is a valid result; callers decide whether emptiness is fatal.
type Result struct {
	Kind    Kind
	Source  string
	Records []Record
	Dropped []Dropped
}

// Loader converts one raw source into an ordered sequence of raw records.
type Loader interface {
	// Validate performs a cheap accessibility check without loading.
	Validate(ctx context.Context) error
	// Load reads and parses the whole source. Source-level failures abort
	// the load; malformed individual records are dropped and reported.
	Load(ctx context.Context) (*Result, error)
}

// New returns the loader matching a detected kind.
func New(kind Kind, ref string, opts Options, client *http.Client) (Loader, error) {
	if client == nil {
		client = NewHTTPClient()
	}
	switch kind {
	case KindCSV, KindURLCSV:
		return &CSVLoader{ref: ref, kind: kind, opts: opts, client: client}, nil
	case KindJSON, KindURLJSON:
		return &JSONLoader{ref: ref, kind: kind, client: client}, nil
	case KindAPI:
		return &APILoader{ref: ref, opts: opts, client: client}, nil
	}
	return nil, errors.SourceUndetectable(ref)
}

// openSource returns a reader for a local file or remote URL.
func openSource(ctx context.Context, ref string, remote bool, client *http.Client) (io.ReadCloser, error) {
	if !remote {
		f, err := os.Open(ref)
		if err != nil {
			return nil, errors.SourceUnreadable(ref, err)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, errors.RequestFailed(ref, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.RequestFailed(ref, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, errors.UnexpectedStatus(ref, resp.StatusCode)
	}
	return newLimitedBody(resp.Body), nil
}

// validateRef checks existence of a local file or reachability of a URL.
func validateRef(ctx context.Context, ref string, remote bool, client *http.Client) error {
	if !remote {
		info, err := os.Stat(ref)
		if err != nil {
			return errors.SourceUnreadable(ref, err)
		}
		if info.IsDir() {
			return errors.New(errors.CategorySource, errors.SeverityFatal, "source is a directory").
				WithContext("source", ref)
		}
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref, http.NoBody)
	if err != nil {
		return errors.RequestFailed(ref, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.RequestFailed(ref, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.UnexpectedStatus(ref, resp.StatusCode)
	}
	return nil
}

type limitedBody struct {
	r io.Reader
	c io.Closer
}

func newLimitedBody(rc io.ReadCloser) io.ReadCloser {
	return &limitedBody{r: io.LimitReader(rc, maxResponseBytes), c: rc}
}

func (l *limitedBody) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *limitedBody) Close() error               { return l.c.Close() }
