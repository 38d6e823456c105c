// Package source classifies input references and loads raw records from
// CSV files, JSON documents and HTTP APIs behind a common Loader contract.
package source

import (
	"context"
	"net/http"
	"path"
	"strings"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// Kind is the classified source kind of an input reference.
type Kind string

const (
	KindCSV     Kind = "csv"
	KindJSON    Kind = "json"
	KindAPI     Kind = "api"
	KindURLJSON Kind = "url-json"
	KindURLCSV  Kind = "url-csv"
)

// Remote reports whether the source is fetched over HTTP.
func (k Kind) Remote() bool { return k == KindAPI || k == KindURLJSON || k == KindURLCSV }

// Tabular reports whether the source carries untyped tabular text, which
// makes its string values candidates for type coercion downstream.
func (k Kind) Tabular() bool { return k == KindCSV || k == KindURLCSV }

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Detect classifies an input reference. An explicit override ("csv", "json",
// "api") always wins; otherwise the file extension decides, and for
// extensionless URLs a lightweight HEAD content-type probe runs before
// defaulting to an API source. client may be nil for local references.
func Detect(ctx context.Context, ref, override string, client *http.Client) (Kind, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.New(errors.CategorySource, errors.SeverityFatal, "empty source reference")
	}

	remote := isURL(ref)
	switch strings.ToLower(strings.TrimSpace(override)) {
	case "csv":
		if remote {
			return KindURLCSV, nil
		}
		return KindCSV, nil
	case "json":
		if remote {
			return KindURLJSON, nil
		}
		return KindJSON, nil
	case "api":
		return KindAPI, nil
	case "":
	default:
		return "", errors.ValidationFailed("format", "must be one of csv, json, api")
	}

	lower := strings.ToLower(ref)
	if remote {
		trimmed := strings.TrimSuffix(lower, "/")
		switch {
		case strings.HasSuffix(trimmed, ".json"):
			return KindURLJSON, nil
		case strings.HasSuffix(trimmed, ".csv"):
			return KindURLCSV, nil
		case strings.Contains(lower, "/api/") || strings.HasSuffix(trimmed, "/api"):
			return KindAPI, nil
		}
		if kind, ok := probeContentType(ctx, ref, client); ok {
			return kind, nil
		}
		return KindAPI, nil
	}

	switch strings.ToLower(path.Ext(lower)) {
	case ".json":
		return KindJSON, nil
	case ".csv":
		return KindCSV, nil
	}
	return "", errors.SourceUndetectable(ref)
}

// probeContentType issues a HEAD request and maps the response content type
// to a kind. Any failure leaves the decision to the caller's default.
func probeContentType(ctx context.Context, ref string, client *http.Client) (Kind, bool) {
	if client == nil {
		client = NewHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref, http.NoBody)
	if err != nil {
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "csv"):
		return KindURLCSV, true
	case strings.Contains(ct, "json"):
		return KindURLJSON, true
	}
	return "", false
}
