// Package keysel resolves user-supplied field selections against the union
// of field paths in a collection. It is pure selection policy; how the
// selection string was obtained (flag, config file, prompt) is the caller's
// concern.
package keysel

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/model"
)

// Selection keywords.
const (
	SelectAll  = "all"
	SelectNone = "none"
)

// Enumerate returns every field path available across the collection,
// ordered by first appearance. The same collection always enumerates
// identically, so 1-based indices into this list are stable.
func Enumerate(coll *model.Collection) []string {
	return coll.Paths()
}

// Resolve maps a selection string to field paths: "all", "none", or a
// comma/whitespace separated mix of path names and 1-based indices into
// the enumerated union. Unknown names and out-of-range indices are
// validation errors; a path missing from an individual record is not (the
// union spans a possibly heterogeneous collection, and renderers simply
// omit the value for that record).
func Resolve(coll *model.Collection, selection string) ([]string, error) {
	union := Enumerate(coll)
	trimmed := strings.TrimSpace(selection)
	switch strings.ToLower(trimmed) {
	case "", SelectAll:
		return union, nil
	case SelectNone:
		return []string{}, nil
	}

	known := make(map[string]bool, len(union))
	for _, p := range union {
		known[p] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, token := range strings.FieldsFunc(trimmed, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		path, err := resolveToken(token, union, known)
		if err != nil {
			return nil, err
		}
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out, nil
}

func resolveToken(token string, union []string, known map[string]bool) (string, error) {
	if idx, err := strconv.Atoi(token); err == nil {
		if idx < 1 || idx > len(union) {
			return "", errors.ValidationFailed("keys", "index "+token+" is out of range 1.."+strconv.Itoa(len(union)))
		}
		return union[idx-1], nil
	}
	if !known[token] {
		return "", errors.ValidationFailed("keys", "unknown field path "+strconv.Quote(token))
	}
	return token, nil
}

// Example returns a short preview of the first non-null value a path takes
// across the collection, for selection listings.
func Example(coll *model.Collection, path string, maxLen int) string {
	for _, obj := range coll.Objects() {
		v, ok := obj.Get(path)
		if !ok || v.Kind() == model.KindNull {
			continue
		}
		s := v.Format()
		if s == "" {
			continue
		}
		if maxLen > 0 {
			if r := []rune(s); len(r) > maxLen {
				s = string(r[:maxLen]) + "..."
			}
		}
		return s
	}
	return ""
}
