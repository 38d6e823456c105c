package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet_NestedPath_ResolvesLeaf(t *testing.T) {
	o := NewObject()
	o.Set("profile.age", Number(34))
	o.Set("profile.city", String("Oslo"))

	v, ok := o.Get("profile.age")
	require.True(t, ok)
	require.Equal(t, KindNumber, v.Kind())
	require.Equal(t, 34.0, v.Num())

	_, ok = o.Get("profile.missing")
	require.False(t, ok)
}

func TestGet_ListIndexSegment_ResolvesElement(t *testing.T) {
	o := NewObject()
	o.SetKey("tags", List(String("a"), String("b")))

	v, ok := o.Get("tags.1")
	require.True(t, ok)
	require.Equal(t, "b", v.Str())

	_, ok = o.Get("tags.2")
	require.False(t, ok)
	_, ok = o.Get("tags.x")
	require.False(t, ok)
}

func TestSet_ConflictingLeaf_LastWriteWins(t *testing.T) {
	o := NewObject()
	o.Set("a", String("scalar"))
	o.Set("a.b", String("nested"))

	v, ok := o.Get("a.b")
	require.True(t, ok)
	require.Equal(t, "nested", v.Str())
}

func TestPaths_NestedMaps_FirstSeenOrderParentsFirst(t *testing.T) {
	o := NewObject()
	o.Set("name", String("x"))
	o.Set("profile.age", Number(1))
	o.Set("profile.city", String("y"))

	require.Equal(t, []string{"name", "profile", "profile.age", "profile.city"}, o.Paths())
}

func TestFlatten_DottedHeaders_RoundTripsExactly(t *testing.T) {
	// Nested reconstruction of dotted CSV headers, flattened back, must
	// reproduce the original header row.
	headers := []string{"name", "profile.age", "profile.city", "dept"}
	o := NewObject()
	for _, h := range headers {
		o.Set(h, String("v-"+h))
	}

	flat := o.Flatten(".")
	require.Equal(t, headers, flat.Keys())
	for _, h := range headers {
		v, ok := flat.Value(h)
		require.True(t, ok)
		require.Equal(t, "v-"+h, v.Str())
	}

	nested := Unflatten(flat, ".")
	v, ok := nested.Get("profile.city")
	require.True(t, ok)
	require.Equal(t, "v-profile.city", v.Str())
}

func TestFlatten_ListValues_UseIndexSegments(t *testing.T) {
	o := NewObject()
	o.SetKey("tags", List(String("a"), String("b")))

	flat := o.Flatten(".")
	require.Equal(t, []string{"tags.0", "tags.1"}, flat.Keys())
}

func TestLeaves_EmptyContainers_AreTerminal(t *testing.T) {
	o := NewObject()
	o.SetKey("empty", Map(NewObject()))
	o.SetKey("none", List())

	leaves := o.Leaves()
	require.Len(t, leaves, 2)
	require.Equal(t, "empty", leaves[0].Path)
	require.Equal(t, "none", leaves[1].Path)
}

func TestFromMap_NoOrder_SortsKeysDeterministically(t *testing.T) {
	m := map[string]any{"b": 1, "a": 2, "c": 3}

	first := FromMap(m, nil)
	second := FromMap(m, nil)

	require.Equal(t, []string{"a", "b", "c"}, first.Keys())
	require.Equal(t, first.Keys(), second.Keys())
}

func TestFromMap_WithOrder_PreservesGivenOrder(t *testing.T) {
	m := map[string]any{"b": 1, "a": 2, "z": 3}

	o := FromMap(m, []string{"z", "b"})

	require.Equal(t, []string{"z", "b", "a"}, o.Keys())
}

func TestFormat_Scalars_ReadableRepresentation(t *testing.T) {
	require.Equal(t, "", Null().Format())
	require.Equal(t, "hi", String("hi").Format())
	require.Equal(t, "2", Number(2).Format())
	require.Equal(t, "2.5", Number(2.5).Format())
	require.Equal(t, "true", Bool(true).Format())
}

func TestCollectionPaths_UnionFirstSeenAcrossRecords(t *testing.T) {
	a := NewObject()
	a.Set("name", String("x"))
	a.Set("dept", String("y"))
	b := NewObject()
	b.Set("name", String("z"))
	b.Set("profile.age", Number(1))

	c := NewCollection()
	c.Add(a)
	c.Add(b)

	require.Equal(t, []string{"name", "dept", "profile", "profile.age"}, c.Paths())
}
