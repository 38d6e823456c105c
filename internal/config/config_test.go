package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MinimalConfig_DefaultsApplied(t *testing.T) {
	s, err := Load(writeConfig(t, "source:\n  ref: data.csv\n"))
	require.NoError(t, err)
	require.Equal(t, "data.csv", s.Source.Ref)
	require.Equal(t, "./output", s.Output.Directory)
	require.Equal(t, []string{"markdown"}, s.Formats)
	require.Equal(t, ",", s.Source.Delimiter)
	require.Equal(t, ".", s.Source.NestedSeparator)
	require.Equal(t, "all", s.Keys)
	require.Equal(t, "yaml", s.Markdown.FrontMatter)
}

func TestLoad_DollarSigns_TakenLiterally(t *testing.T) {
	t.Setenv("DOCFORGE_TEST_REF", "from-env.csv")

	s, err := Load(writeConfig(t, "source:\n  ref: $DOCFORGE_TEST_REF\n"))
	require.NoError(t, err)
	require.Equal(t, "$DOCFORGE_TEST_REF", s.Source.Ref)
}

func TestLoad_MissingFile_ConfigError(t *testing.T) {
	_, err := Load("/no/such/docforge.yaml")
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_MissingSourceRef_Required(t *testing.T) {
	_, err := Load(writeConfig(t, "output:\n  directory: ./out\n"))
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestLoad_UnknownFormat_Rejected(t *testing.T) {
	_, err := Load(writeConfig(t, "source:\n  ref: data.csv\nformats: [html]\n"))
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLoad_BadDelimiter_Rejected(t *testing.T) {
	_, err := Load(writeConfig(t, "source:\n  ref: data.csv\n  delimiter: \";;\"\n"))
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DOCFORGE_TEST_REF", "env.csv")
	s, err := Load(writeConfig(t, "source:\n  ref: ${DOCFORGE_TEST_REF}\n"))
	require.NoError(t, err)
	require.Equal(t, "env.csv", s.Source.Ref)
}

func TestValidate_BadSourceFormat_Rejected(t *testing.T) {
	s := &Settings{}
	s.Source.Ref = "data.csv"
	s.Source.Format = "xml"
	s.ApplyDefaults()
	require.Error(t, s.Validate())
}

func TestSnapshot_StableAndSensitive(t *testing.T) {
	base := func() *Settings {
		s := &Settings{}
		s.Source.Ref = "data.csv"
		s.ApplyDefaults()
		return s
	}

	a, b := base(), base()
	require.Equal(t, a.Snapshot(), b.Snapshot())

	b.Output.Directory = "./elsewhere"
	require.NotEqual(t, a.Snapshot(), b.Snapshot())
}

func TestSnapshot_FormatOrderInsensitive(t *testing.T) {
	a := &Settings{Formats: []string{"markdown", "pdf"}}
	a.Source.Ref = "data.csv"
	a.ApplyDefaults()
	b := &Settings{Formats: []string{"pdf", "markdown"}}
	b.Source.Ref = "data.csv"
	b.ApplyDefaults()
	require.Equal(t, a.Snapshot(), b.Snapshot())
}
