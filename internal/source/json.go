package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

// JSONLoader accepts a single object, an array of objects, or
// newline-delimited objects. Each top-level element becomes one record.
type JSONLoader struct {
	ref    string
	kind   Kind
	client *http.Client
}

func (l *JSONLoader) Validate(ctx context.Context) error {
	return validateRef(ctx, l.ref, l.kind.Remote(), l.client)
}

func (l *JSONLoader) Load(ctx context.Context) (*Result, error) {
	body, err := openSource(ctx, l.ref, l.kind.Remote(), l.client)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.SourceUnreadable(l.ref, err)
	}
	result := &Result{Kind: l.kind, Source: l.ref}
	if err := parseJSONRecords(data, l.ref, result); err != nil {
		return nil, err
	}
	return result, nil
}

// parseJSONRecords fills result from a JSON document. A whole-document
// decode is tried first; when that fails and the input looks line-oriented,
// it is parsed as NDJSON with malformed lines dropped and counted.
func parseJSONRecords(data []byte, ref string, result *Result) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return errors.New(errors.CategoryParse, errors.SeverityFatal, "json source is empty").
			WithContext("source", ref)
	}

	var top any
	if err := json.Unmarshal([]byte(trimmed), &top); err == nil {
		switch v := top.(type) {
		case map[string]any:
			result.Records = append(result.Records, Record{Fields: v})
			return nil
		case []any:
			for i, elem := range v {
				obj, ok := elem.(map[string]any)
				if !ok {
					result.Dropped = append(result.Dropped, Dropped{
						Index:  i,
						Reason: fmt.Sprintf("array element is %T, not an object", elem),
					})
					continue
				}
				result.Records = append(result.Records, Record{Fields: obj})
			}
			return nil
		default:
			return errors.New(errors.CategoryParse, errors.SeverityFatal, "json root must be an object or an array of objects").
				WithContext("source", ref)
		}
	}

	// Newline-delimited objects.
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	index := 0
	parsedAny := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			result.Dropped = append(result.Dropped, Dropped{Index: index, Reason: err.Error()})
		} else {
			result.Records = append(result.Records, Record{Fields: obj})
			parsedAny = true
		}
		index++
	}
	if !parsedAny && len(result.Dropped) > 0 {
		return errors.ParseFailed(ref, fmt.Errorf("no parsable json objects in %d lines", index))
	}
	return nil
}
