package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/errors"
)

func TestJSONLoad_ArrayOfObjects(t *testing.T) {
	path := writeTemp(t, "list.json", `[{"name":"a"},{"name":"b"}]`)
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	res, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Equal(t, "a", res.Records[0].Fields["name"])
}

func TestJSONLoad_SingleObject_OneRecord(t *testing.T) {
	path := writeTemp(t, "one.json", `{"name":"solo","profile":{"age":3}}`)
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	res, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	profile, ok := res.Records[0].Fields["profile"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(3), profile["age"])
}

func TestJSONLoad_EmptyArray_ZeroRecordsNotError(t *testing.T) {
	path := writeTemp(t, "empty.json", `[]`)
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	res, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Records)
	require.Empty(t, res.Dropped)
}

func TestJSONLoad_NewlineDelimited(t *testing.T) {
	path := writeTemp(t, "rows.ndjson.json", "{\"n\":1}\n{\"n\":2}\nnot-json\n{\"n\":3}\n")
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	res, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	require.Len(t, res.Dropped, 1)
	require.Equal(t, 2, res.Dropped[0].Index)
}

func TestJSONLoad_NonObjectArrayElement_DroppedAndCounted(t *testing.T) {
	path := writeTemp(t, "mixed.json", `[{"n":1}, 42, {"n":2}]`)
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	res, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Len(t, res.Dropped, 1)
	require.Equal(t, 1, res.Dropped[0].Index)
}

func TestJSONLoad_ScalarRoot_ParseError(t *testing.T) {
	path := writeTemp(t, "scalar.json", `42`)
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryParse))
}

func TestJSONLoad_Garbage_ParseError(t *testing.T) {
	path := writeTemp(t, "garbage.json", "{{{{nope")
	loader, err := New(KindJSON, path, Options{}, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryParse))
}
