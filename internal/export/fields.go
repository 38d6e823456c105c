package export

import (
	"strings"

	"git.home.luguber.info/inful/docforge/internal/model"
)

var titleKeys = []string{"name", "title", "id"}

// Title picks a human-readable document title from the record, preferring
// name, then title, then id. Falls back to "Document".
func Title(obj *model.Object) string {
	for _, candidate := range titleKeys {
		for _, path := range obj.Paths() {
			if !strings.EqualFold(path, candidate) {
				continue
			}
			if v, ok := obj.Get(path); ok && v.Format() != "" {
				return v.Format()
			}
		}
	}
	return "Document"
}

// FieldRows expands the selected keys into label/value rows for tabular
// renderers. Containers contribute one row per leaf, labelled with the
// full dotted path.
func FieldRows(obj *model.Object, keys []string) [][2]string {
	leaves := obj.Leaves()
	var rows [][2]string
	for _, key := range keys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		if v.IsScalar() {
			rows = append(rows, [2]string{key, v.Format()})
			continue
		}
		for _, leaf := range leaves {
			if leaf.Path == key || strings.HasPrefix(leaf.Path, key+model.PathSeparator) {
				rows = append(rows, [2]string{leaf.Path, leaf.Value.Format()})
			}
		}
	}
	return rows
}
