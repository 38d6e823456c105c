package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/config"
	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/source"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func settingsFor(t *testing.T, ref string) *config.Settings {
	t.Helper()
	s := &config.Settings{}
	s.Source.Ref = ref
	s.Output.Directory = filepath.Join(t.TempDir(), "out")
	s.ApplyDefaults()
	require.NoError(t, s.Validate())
	return s
}

func TestRun_CSVToMarkdown_EndToEnd(t *testing.T) {
	csv := writeFile(t, "employees.csv",
		"Name,Department,Address.City\nJohn Smith,Engineering,Oslo\nJane Doe,Marketing,Bergen\n")
	s := settingsFor(t, csv)
	s.Output.FilenameKey = "Name"

	report, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, source.KindCSV, report.Kind)
	require.Equal(t, 2, report.Loaded)
	require.Equal(t, 2, report.Normalized)
	require.Equal(t, "success", report.Batch.Outcome())

	john, err := os.ReadFile(filepath.Join(s.Output.Directory, "john-smith.md"))
	require.NoError(t, err)
	require.Contains(t, string(john), "Name: John Smith")
	require.Contains(t, string(john), "# John Smith")

	_, err = os.Stat(filepath.Join(s.Output.Directory, "jane-doe.md"))
	require.NoError(t, err)
}

func TestRun_CSVNestedHeaders_Rebuilt(t *testing.T) {
	csv := writeFile(t, "data.csv", "name,address.city\nAlice,Oslo\n")
	s := settingsFor(t, csv)

	report, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, report.Keys, "name")
	require.Contains(t, report.Keys, "address")
	require.Contains(t, report.Keys, "address.city")

	out, err := os.ReadFile(filepath.Join(s.Output.Directory, "alice.md"))
	require.NoError(t, err)
	require.Contains(t, string(out), "city: Oslo")
}

func TestRun_EmptyJSONArray_ZeroFiles(t *testing.T) {
	jsonFile := writeFile(t, "data.json", "[]")
	s := settingsFor(t, jsonFile)

	report, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Loaded)

	entries, err := os.ReadDir(s.Output.Directory)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRun_EmptySource_FailOnEmpty(t *testing.T) {
	jsonFile := writeFile(t, "data.json", "[]")
	s := settingsFor(t, jsonFile)
	s.Source.FailOnEmpty = true

	_, err := New(s, nil, nil).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategorySource))
}

func TestRun_KeySelection_LimitsFrontMatter(t *testing.T) {
	csv := writeFile(t, "data.csv", "name,department,secret\nAlice,Engineering,hunter2\n")
	s := settingsFor(t, csv)
	s.Keys = "name, department"

	_, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(s.Output.Directory, "alice.md"))
	require.NoError(t, err)
	require.Contains(t, string(out), "name: Alice")
	require.NotContains(t, string(out), "hunter2")
}

func TestRun_UnknownKey_Fails(t *testing.T) {
	csv := writeFile(t, "data.csv", "name\nAlice\n")
	s := settingsFor(t, csv)
	s.Keys = "nope"

	_, err := New(s, nil, nil).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestRun_MultipleFormats_AllWritten(t *testing.T) {
	csv := writeFile(t, "data.csv", "name\nAlice\n")
	s := settingsFor(t, csv)
	s.Formats = []string{"markdown", "pdf", "word"}

	report, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Batch.Formats, 3)

	for _, ext := range []string{"md", "pdf", "docx"} {
		_, err := os.Stat(filepath.Join(s.Output.Directory, "alice."+ext))
		require.NoError(t, err, "missing alice.%s", ext)
	}
}

func TestRun_MarkdownTemplate_Applied(t *testing.T) {
	csv := writeFile(t, "data.csv", "name,department\nAlice,Engineering\n")
	tmpl := writeFile(t, "doc.tmpl", "{{name}} works in {{department}}.")
	s := settingsFor(t, csv)
	s.Markdown.Template = tmpl

	_, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(s.Output.Directory, "alice.md"))
	require.NoError(t, err)
	require.Contains(t, string(out), "Alice works in Engineering.")
}

func TestRun_CoercionOnlyForCSV(t *testing.T) {
	jsonFile := writeFile(t, "data.json", `[{"name":"Alice","zip":"0150"}]`)
	s := settingsFor(t, jsonFile)

	_, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(s.Output.Directory, "alice.md"))
	require.NoError(t, err)
	// JSON strings keep their type; no numeric coercion applies.
	require.True(t, strings.Contains(string(out), `zip: "0150"`) ||
		strings.Contains(string(out), "zip: 0150\n"), "unexpected zip rendering: %s", out)
}

func TestRun_SummaryIndex_Written(t *testing.T) {
	csv := writeFile(t, "data.csv", "name\nAlice\nBob\n")
	s := settingsFor(t, csv)
	s.Markdown.Summary = true

	_, err := New(s, nil, nil).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Output.Directory, "README.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "- [alice](alice.md)")
	require.Contains(t, string(data), "- [bob](bob.md)")
}

func TestRun_SameInputTwice_IdenticalOutput(t *testing.T) {
	csv := writeFile(t, "data.csv", "name,dept\nAlice,Engineering\nBob,Sales\n")

	render := func() []byte {
		t.Helper()
		s := settingsFor(t, csv)
		_, err := New(s, nil, nil).Run(context.Background())
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(s.Output.Directory, "alice.md"))
		require.NoError(t, err)
		return data
	}

	require.Equal(t, render(), render())
}
