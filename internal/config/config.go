// Package config loads and validates docforge run configuration from YAML.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/source"
)

// Settings represents one export run's configuration.
type Settings struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Formats  []string       `yaml:"formats,omitempty"`
	Keys     string         `yaml:"keys,omitempty"` // "all", "none", or a key list
	Markdown MarkdownConfig `yaml:"markdown,omitempty"`
	PDF      PDFConfig      `yaml:"pdf,omitempty"`
	Word     WordConfig     `yaml:"word,omitempty"`
}

// SourceConfig describes where records come from and how they are shaped.
type SourceConfig struct {
	Ref             string            `yaml:"ref"`
	Format          string            `yaml:"format,omitempty"` // "csv", "json" or "api"; empty auto-detects
	Delimiter       string            `yaml:"delimiter,omitempty"`
	NestedSeparator string            `yaml:"nested_separator,omitempty"`
	Flatten         bool              `yaml:"flatten,omitempty"`
	TrimKeys        bool              `yaml:"trim_keys,omitempty"`
	Aliases         map[string]string `yaml:"aliases,omitempty"`
	FailOnEmpty     bool              `yaml:"fail_on_empty,omitempty"`
	API             APIConfig         `yaml:"api,omitempty"`
}

// APIConfig customizes HTTP requests for API sources.
type APIConfig struct {
	Method  string            `yaml:"method,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Query   map[string]string `yaml:"query,omitempty"`
	Body    string            `yaml:"body,omitempty"`
}

// OutputConfig describes where documents are written.
type OutputConfig struct {
	Directory   string `yaml:"directory"`
	FilenameKey string `yaml:"filename_key,omitempty"`
}

// MarkdownConfig customizes the Markdown exporter.
type MarkdownConfig struct {
	Template    string `yaml:"template,omitempty"` // path or URL
	Strict      bool   `yaml:"strict,omitempty"`
	TOC         bool   `yaml:"toc,omitempty"`
	Summary     bool   `yaml:"summary,omitempty"`
	FrontMatter string `yaml:"front_matter,omitempty"` // "yaml" (default) or "json"
}

// PDFConfig customizes the PDF exporter.
type PDFConfig struct {
	Template    string `yaml:"template,omitempty"`
	Strict      bool   `yaml:"strict,omitempty"`
	Orientation string `yaml:"orientation,omitempty"`
	PageSize    string `yaml:"page_size,omitempty"`
}

// WordConfig customizes the Word exporter.
type WordConfig struct {
	Template string `yaml:"template,omitempty"` // .docx stencil template
}

// KnownFormats lists the supported export format names.
var KnownFormats = []string{"markdown", "pdf", "word"}

// Load reads settings from path, applies defaults and validates. The file
// content is taken literally; no environment expansion happens here.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "cannot read configuration").
			WithContext("path", path)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "cannot parse configuration").
			WithContext("path", path)
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (s *Settings) ApplyDefaults() {
	if s.Output.Directory == "" {
		s.Output.Directory = "./output"
	}
	if len(s.Formats) == 0 {
		s.Formats = []string{"markdown"}
	}
	if s.Source.Delimiter == "" {
		s.Source.Delimiter = ","
	}
	if s.Source.NestedSeparator == "" {
		s.Source.NestedSeparator = "."
	}
	if s.Keys == "" {
		s.Keys = "all"
	}
	if s.Markdown.FrontMatter == "" {
		s.Markdown.FrontMatter = "yaml"
	}
}

// Validate checks settings consistency. Call after ApplyDefaults.
func (s *Settings) Validate() error {
	if s.Source.Ref == "" {
		return errors.ConfigRequired("source.ref")
	}
	if s.Source.Format != "" {
		switch strings.ToLower(s.Source.Format) {
		case string(source.KindCSV), string(source.KindJSON), string(source.KindAPI):
		default:
			return errors.ValidationFailed("source.format", "must be csv, json or api")
		}
	}
	if len([]rune(s.Source.Delimiter)) != 1 {
		return errors.ValidationFailed("source.delimiter", "must be a single character")
	}
	for _, f := range s.Formats {
		if !knownFormat(f) {
			return errors.ValidationFailed("formats", "unknown format "+f)
		}
	}
	switch s.Markdown.FrontMatter {
	case "yaml", "json":
	default:
		return errors.ValidationFailed("markdown.front_matter", "must be yaml or json")
	}
	return nil
}

func knownFormat(name string) bool {
	for _, f := range KnownFormats {
		if f == name {
			return true
		}
	}
	return false
}
