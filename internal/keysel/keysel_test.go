package keysel

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/model"
)

func collection(t *testing.T) *model.Collection {
	t.Helper()
	a := model.NewObject()
	a.Set("name", model.String("x"))
	a.Set("dept", model.String("y"))
	b := model.NewObject()
	b.Set("name", model.String("z"))
	b.Set("profile.age", model.Number(1))

	c := model.NewCollection()
	c.Add(a)
	c.Add(b)
	return c
}

func TestResolve_All_ReturnsEveryEnumeratedPath(t *testing.T) {
	c := collection(t)

	got, err := Resolve(c, "all")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "dept", "profile", "profile.age"}, got)

	got, err = Resolve(c, "")
	require.NoError(t, err)
	require.Contains(t, got, "profile.age")
	require.Equal(t, Enumerate(c), got)
}

func TestEnumerate_IncludesNestedPaths(t *testing.T) {
	require.Equal(t, []string{"name", "dept", "profile", "profile.age"}, Enumerate(collection(t)))
}

func TestResolve_None_AlwaysEmptySet(t *testing.T) {
	got, err := Resolve(collection(t), "none")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestResolve_NamesAndIndices_Mixed(t *testing.T) {
	c := collection(t)
	// Union order: name, dept, profile, profile.age.
	got, err := Resolve(c, "dept, 1 profile.age")
	require.NoError(t, err)
	require.Equal(t, []string{"dept", "name", "profile.age"}, got)
}

func TestResolve_DuplicateTokens_Deduplicated(t *testing.T) {
	got, err := Resolve(collection(t), "name,1,name")
	require.NoError(t, err)
	require.Equal(t, []string{"name"}, got)
}

func TestResolve_UnknownName_ValidationError(t *testing.T) {
	_, err := Resolve(collection(t), "name,missing")
	require.Error(t, err)
}

func TestResolve_IndexOutOfRange_ValidationError(t *testing.T) {
	_, err := Resolve(collection(t), "99")
	require.Error(t, err)
	_, err = Resolve(collection(t), "0")
	require.Error(t, err)
}

func TestResolve_ResolvedPathsBelongToUnion(t *testing.T) {
	c := collection(t)
	union := map[string]bool{}
	for _, p := range Enumerate(c) {
		union[p] = true
	}

	got, err := Resolve(c, "2 4")
	require.NoError(t, err)
	for _, p := range got {
		require.True(t, union[p], p)
	}
}

func TestExample_FirstNonEmptyValueTruncated(t *testing.T) {
	c := model.NewCollection()
	o := model.NewObject()
	o.Set("bio", model.String("a very long biography indeed"))
	c.Add(o)

	require.Equal(t, "a very lon...", Example(c, "bio", 10))
	require.Equal(t, "", Example(c, "missing", 10))
}

func TestExample_MultiByteValue_TruncatesOnRuneBoundary(t *testing.T) {
	c := model.NewCollection()
	o := model.NewObject()
	o.Set("city", model.String("Örnsköldsvik"))
	c.Add(o)

	got := Example(c, "city", 4)
	require.Equal(t, "Örns...", got)
	require.True(t, utf8.ValidString(got))
}
