// Package normalize converts raw loader records into the canonical model.
//
// Type coercion is asymmetric on purpose: CSV carries no native typing, so
// numeric-looking and boolean-looking strings from tabular sources become
// numbers and booleans, while JSON-sourced values keep their parsed types
// unchanged.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docforge/internal/errors"
	"git.home.luguber.info/inful/docforge/internal/model"
	"git.home.luguber.info/inful/docforge/internal/source"
)

// Options controls per-record normalization.
type Options struct {
	// Flatten collapses nested maps and lists into dotted leaf paths.
	Flatten bool
	// Separator is the flattening join separator (default ".").
	Separator string
	// TrimKeys strips surrounding whitespace from field names.
	TrimKeys bool
	// Aliases maps raw field names to canonical names before insertion.
	Aliases map[string]string
	// CoerceStrings converts numeric- and boolean-looking leaf strings.
	// The pipeline enables it only for tabular (CSV) sources.
	CoerceStrings bool
}

// Normalizer converts raw records into Objects.
type Normalizer struct {
	opts Options
}

func New(opts Options) *Normalizer {
	if opts.Separator == "" {
		opts.Separator = model.PathSeparator
	}
	return &Normalizer{opts: opts}
}

// DroppedRecord reports a record that could not be normalized.
type DroppedRecord struct {
	Index  int
	Reason string
}

// Report is the accounting for one Collection call.
type Report struct {
	Attempted  int
	Normalized int
	Dropped    []DroppedRecord
}

// Record converts one raw record into a canonical Object.
func (n *Normalizer) Record(rec source.Record) (*model.Object, error) {
	if len(rec.Fields) == 0 {
		return nil, errors.New(errors.CategoryNormalize, errors.SeverityWarning, "record has no fields")
	}

	obj := model.NewObject()
	for _, key := range n.keyOrder(rec) {
		name := n.canonicalKey(key)
		if name == "" {
			continue
		}
		value := n.coerce(model.FromAny(rec.Fields[key]))
		if rec.PathKeys {
			// Dotted tabular keys rebuild nested structure in column
			// order, merging conflicting leaves last-write-wins.
			obj.Set(name, value)
		} else {
			obj.SetKey(name, value)
		}
	}
	if obj.Len() == 0 {
		return nil, errors.New(errors.CategoryNormalize, errors.SeverityWarning, "record has no usable field names")
	}

	if n.opts.Flatten {
		obj = obj.Flatten(n.opts.Separator)
	}
	return obj, nil
}

// Collection normalizes every record of a load result in source order.
// Records that fail are dropped and counted; the collection holds exactly
// the records that normalized successfully.
func (n *Normalizer) Collection(res *source.Result) (*model.Collection, *Report) {
	coll := model.NewCollection()
	report := &Report{Attempted: len(res.Records)}
	for i, rec := range res.Records {
		obj, err := n.Record(rec)
		if err != nil {
			report.Dropped = append(report.Dropped, DroppedRecord{Index: i, Reason: err.Error()})
			continue
		}
		coll.Add(obj)
	}
	report.Normalized = coll.Len()
	return coll, report
}

func (n *Normalizer) keyOrder(rec source.Record) []string {
	if rec.Order != nil {
		return rec.Order
	}
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (n *Normalizer) canonicalKey(key string) string {
	if n.opts.TrimKeys {
		key = strings.TrimSpace(key)
	}
	if alias, ok := n.opts.Aliases[key]; ok {
		return alias
	}
	return key
}

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// coerce rewrites string leaves into numbers and booleans when coercion is
// active, recursing through nested containers.
func (n *Normalizer) coerce(v model.Value) model.Value {
	if !n.opts.CoerceStrings {
		return v
	}
	switch v.Kind() {
	case model.KindString:
		s := strings.TrimSpace(v.Str())
		if numericPattern.MatchString(s) {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return model.Number(f)
			}
		}
		switch s {
		case "true":
			return model.Bool(true)
		case "false":
			return model.Bool(false)
		}
		return v
	case model.KindMap:
		out := model.NewObject()
		obj := v.Object()
		for _, k := range obj.Keys() {
			child, _ := obj.Value(k)
			out.SetKey(k, n.coerce(child))
		}
		return model.Map(out)
	case model.KindList:
		items := v.Items()
		out := make([]model.Value, len(items))
		for i, item := range items {
			out[i] = n.coerce(item)
		}
		return model.List(out...)
	default:
		return v
	}
}
