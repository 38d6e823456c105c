package model

// Collection is an ordered sequence of records from one loader invocation.
// Insertion order is source order. The collection is read-only once the
// pipeline has produced it; exporters never mutate it.
type Collection struct {
	objects []*Object
}

// NewCollection returns an empty collection.
func NewCollection() *Collection { return &Collection{} }

// Add appends a record.
func (c *Collection) Add(o *Object) { c.objects = append(c.objects, o) }

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.objects) }

// At returns the record at index i.
func (c *Collection) At(i int) *Object { return c.objects[i] }

// Objects returns the records in source order. Callers must treat the
// slice as read-only.
func (c *Collection) Objects() []*Object { return c.objects }

// Paths returns the union of field paths across all records, ordered by
// first appearance across the collection.
func (c *Collection) Paths() []string {
	var out []string
	seen := make(map[string]bool)
	for _, obj := range c.objects {
		for _, p := range obj.Paths() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
