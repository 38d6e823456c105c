package word

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/model"
)

func employee(t *testing.T) *model.Object {
	t.Helper()
	o := model.NewObject()
	o.SetKey("name", model.String("John Smith"))
	o.SetKey("department", model.String("Engineering"))
	return o
}

func TestExportOne_WritesDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	e := New(Options{})
	require.NoError(t, e.ExportOne(context.Background(), employee(t), []string{"name", "department"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// DOCX files are zip archives.
	require.True(t, len(data) > 4)
	require.Equal(t, "PK", string(data[:2]))
}

func TestValidateSettings_ProbeFailure_Capability(t *testing.T) {
	prev := Probe
	Probe = func() error { return os.ErrNotExist }
	defer func() { Probe = prev }()

	err := New(Options{}).ValidateSettings()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryCapability))
}

func TestValidateSettings_MissingTemplate_Validation(t *testing.T) {
	e := New(Options{TemplatePath: "/no/such/template.docx"})
	err := e.ValidateSettings()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestValidateSettings_Default_OK(t *testing.T) {
	require.NoError(t, New(Options{}).ValidateSettings())
}
