// Package filename derives filesystem-safe, per-run-unique output names
// from records.
package filename

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docforge/internal/model"
)

// DefaultMaxLength bounds the slug length before the collision suffix.
const DefaultMaxLength = 120

// Fallback name when a record yields nothing sluggable.
const fallbackStem = "document"

// autoDetectKeys are tried in order when no filename key is configured.
var autoDetectKeys = []string{"name", "title", "id"}

// stripMarks removes combining marks after NFD decomposition, so accented
// characters reduce to their base letters.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generator produces unique names for one export run. It is not safe for
// concurrent use; each batch owns its own Generator.
type Generator struct {
	key      string
	maxLen   int
	taken    map[string]bool
	counters map[string]int
}

// New creates a Generator with the configured filename key ("" enables
// auto-detection).
func New(key string) *Generator {
	return &Generator{
		key:      key,
		maxLen:   DefaultMaxLength,
		taken:    make(map[string]bool),
		counters: make(map[string]int),
	}
}

// Name returns the unique output stem (no extension) for the record at the
// given batch index. Within one Generator no two calls ever return the same
// name: collisions get -1, -2, ... suffixes in encounter order.
func (g *Generator) Name(obj *model.Object, index int) string {
	return g.unique(g.stem(obj, index))
}

func (g *Generator) stem(obj *model.Object, index int) string {
	if g.key != "" {
		if v, ok := obj.Get(g.key); ok {
			if s := Slug(v.Format(), g.maxLen); s != "" {
				return s
			}
		}
		return positional(index)
	}
	for _, candidate := range autoDetectKeys {
		for _, path := range obj.Paths() {
			if !strings.EqualFold(path, candidate) {
				continue
			}
			if v, ok := obj.Get(path); ok {
				if s := Slug(v.Format(), g.maxLen); s != "" {
					return s
				}
			}
		}
	}
	return positional(index)
}

func positional(index int) string {
	return fmt.Sprintf("%s-%03d", fallbackStem, index+1)
}

func (g *Generator) unique(base string) string {
	if !g.taken[base] {
		g.taken[base] = true
		return base
	}
	n := g.counters[base]
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !g.taken[candidate] {
			g.counters[base] = n
			g.taken[candidate] = true
			return candidate
		}
	}
}

// Slug converts a raw value into a lowercase kebab-case filename stem:
// diacritics stripped, anything outside [a-z0-9] collapsed to single
// hyphens, truncated to maxLen. Returns "" when nothing survives.
func Slug(raw string, maxLen int) string {
	s, _, err := transform.String(stripMarks, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToLower(s)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}
