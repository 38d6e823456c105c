package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// APILoader issues one HTTP request per load and parses the response body
// like the JSON loader. No automatic retry: network failures and non-2xx
// responses fail fast with the status detail, and the caller may re-invoke.
type APILoader struct {
	ref    string
	opts   Options
	client *http.Client
}

func (l *APILoader) Validate(ctx context.Context) error {
	if _, err := url.ParseRequestURI(l.ref); err != nil {
		return errors.SourceUnreadable(l.ref, err)
	}
	return nil
}

func (l *APILoader) Load(ctx context.Context) (*Result, error) {
	req, err := l.buildRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.RequestFailed(l.ref, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.UnexpectedStatus(l.ref, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.RequestFailed(l.ref, err)
	}
	result := &Result{Kind: KindAPI, Source: l.ref}
	if err := parseJSONRecords(data, l.ref, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (l *APILoader) buildRequest(ctx context.Context) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(l.opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader = http.NoBody
	if l.opts.Body != "" {
		body = strings.NewReader(l.opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, l.ref, body)
	if err != nil {
		return nil, errors.RequestFailed(l.ref, err)
	}
	for k, v := range l.opts.Headers {
		req.Header.Set(k, v)
	}
	if l.opts.Body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(l.opts.Query) > 0 {
		q := req.URL.Query()
		for k, v := range l.opts.Query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}
