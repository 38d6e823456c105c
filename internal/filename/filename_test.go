package filename

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docforge/internal/model"
)

func objWith(pairs ...string) *model.Object {
	o := model.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.SetKey(pairs[i], model.String(pairs[i+1]))
	}
	return o
}

func TestSlug_Spaces_Kebab(t *testing.T) {
	require.Equal(t, "john-smith", Slug("John Smith", DefaultMaxLength))
}

func TestSlug_Diacritics_Stripped(t *testing.T) {
	require.Equal(t, "jurgen-moller", Slug("Jürgen Møller", DefaultMaxLength))
	require.Equal(t, "cafe-creme", Slug("Café Crème", DefaultMaxLength))
}

func TestSlug_Punctuation_Collapsed(t *testing.T) {
	require.Equal(t, "q3-2025-report-final", Slug("Q3/2025 Report (final)!!", DefaultMaxLength))
}

func TestSlug_Truncated_NoTrailingHyphen(t *testing.T) {
	require.Equal(t, "ab-cd", Slug("ab cd efgh", 6))
}

func TestSlug_NothingSluggable_Empty(t *testing.T) {
	require.Equal(t, "", Slug("!!! ???", DefaultMaxLength))
}

func TestName_ConfiguredKey_Used(t *testing.T) {
	g := New("Name")
	require.Equal(t, "john-smith", g.Name(objWith("Name", "John Smith"), 0))
}

func TestName_ConfiguredKeyMissing_Positional(t *testing.T) {
	g := New("employee_id")
	require.Equal(t, "document-003", g.Name(objWith("Name", "John Smith"), 2))
}

func TestName_AutoDetect_PrefersNameOverID(t *testing.T) {
	g := New("")
	require.Equal(t, "alice", g.Name(objWith("id", "42", "name", "Alice"), 0))
}

func TestName_AutoDetect_TitleFallback(t *testing.T) {
	g := New("")
	require.Equal(t, "annual-review", g.Name(objWith("Title", "Annual Review"), 0))
}

func TestName_NoCandidates_Positional(t *testing.T) {
	g := New("")
	require.Equal(t, "document-001", g.Name(objWith("department", "Engineering"), 0))
}

func TestName_Collision_Suffixed(t *testing.T) {
	g := New("title")
	first := g.Name(objWith("title", "Report"), 0)
	second := g.Name(objWith("title", "Report"), 1)
	third := g.Name(objWith("title", "Report"), 2)
	require.Equal(t, "report", first)
	require.Equal(t, "report-1", second)
	require.Equal(t, "report-2", third)
}

func TestName_CollisionWithExplicitSuffix_StillUnique(t *testing.T) {
	g := New("title")
	require.Equal(t, "report-1", g.Name(objWith("title", "Report 1"), 0))
	require.Equal(t, "report", g.Name(objWith("title", "Report"), 1))
	require.Equal(t, "report-2", g.Name(objWith("title", "Report"), 2))
}

func TestName_Batch_PairwiseDistinct(t *testing.T) {
	g := New("name")
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := g.Name(objWith("name", fmt.Sprintf("Widget %d", i%7)), i)
		require.False(t, seen[name], "duplicate name %q at index %d", name, i)
		seen[name] = true
	}
}
