package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Field is one front matter entry. Fields are emitted in slice order so the
// front matter follows the key selection.
type Field struct {
	Key   string
	Value any
}

// Serializer renders the front matter block for one document. The YAML
// serializer is preferred; JSON is the fallback when YAML is unavailable.
type Serializer interface {
	Name() string
	// Delimiters returns the marker lines fencing the block.
	Delimiters() (open, close string)
	Serialize(fields []Field) ([]byte, error)
}

// YAMLSerializer emits front matter as YAML with 2-space indentation.
// Top-level keys keep selection order; nested maps are sorted so output
// stays deterministic.
type YAMLSerializer struct{}

func (YAMLSerializer) Name() string                 { return "yaml" }
func (YAMLSerializer) Delimiters() (string, string) { return "---", "---" }

func (YAMLSerializer) Serialize(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		valNode, err := nodeFromAny(f.Value)
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, keyNode, valNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeFromAny(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(vv, 10)}, nil
	case float64:
		if vv == float64(int64(vv)) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(vv), 10)}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(vv, 'f', -1, 64)}, nil
	case map[string]any:
		return nodeFromStringMap(vv)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := nodeFromAny(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(vv)}, nil
	}
}

func nodeFromStringMap(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode, err := nodeFromAny(m[k])
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, keyNode, valNode)
	}
	return n, nil
}

// JSONSerializer is the fallback front matter serializer: a JSON object
// with keys in selection order, fenced by the same marker lines as YAML
// so the fallback changes only the serialization inside the block.
type JSONSerializer struct{}

func (JSONSerializer) Name() string                 { return "json" }
func (JSONSerializer) Delimiters() (string, string) { return "---", "---" }

func (JSONSerializer) Serialize(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range fields {
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.MarshalIndent(f.Value, "  ", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "  %s: %s", key, val)
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
