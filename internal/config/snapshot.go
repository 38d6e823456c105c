package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of output-affecting settings. It is
// intentionally narrower than full serialization so unrelated config edits
// do not look like a changed run. Map and slice fields are hashed in
// sorted order. Callers SHOULD run ApplyDefaults before computing a
// snapshot to ensure canonical field values.
func (s *Settings) Snapshot() string {
	if s == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}

	w("source.ref", s.Source.Ref)
	w("source.format", s.Source.Format)
	w("source.delimiter", s.Source.Delimiter)
	w("source.nested_separator", s.Source.NestedSeparator)
	w("source.flatten", strconv.FormatBool(s.Source.Flatten))
	w("source.trim_keys", strconv.FormatBool(s.Source.TrimKeys))
	if len(s.Source.Aliases) > 0 {
		keys := make([]string, 0, len(s.Source.Aliases))
		for k := range s.Source.Aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w("source.alias."+k, s.Source.Aliases[k])
		}
	}

	w("keys", s.Keys)
	w("output.directory", s.Output.Directory)
	w("output.filename_key", s.Output.FilenameKey)

	formats := append([]string{}, s.Formats...)
	sort.Strings(formats)
	w("formats", strings.Join(formats, ","))

	w("markdown.template", s.Markdown.Template)
	w("markdown.front_matter", s.Markdown.FrontMatter)
	w("markdown.toc", strconv.FormatBool(s.Markdown.TOC))
	w("pdf.template", s.PDF.Template)
	w("word.template", s.Word.Template)

	return hex.EncodeToString(h.Sum(nil))
}
