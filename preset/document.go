package preset

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one value of a structured preset document: a *Mapping, a
// Sequence or a Scalar.
type Node interface {
	isNode()
}

// Mapping keeps keys in document order.
type Mapping struct {
	Keys   []string
	Values []Node
}

// Sequence is an ordered list of nodes.
type Sequence []Node

// Scalar is a leaf value. Tag is the resolved YAML short tag (!!str, !!int,
// !!bool, !!null, ...).
type Scalar struct {
	Value string
	Tag   string
}

func (*Mapping) isNode() {}
func (Sequence) isNode() {}
func (Scalar) isNode()   {}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}
	return nil, false
}

// Document is a parsed structured preset file. Root is nil for an empty file.
type Document struct {
	Root Node
}

// ParseDocument parses YAML into the document model. Only the first
// document of a multi-document stream is used.
func ParseDocument(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &Document{Root: convertNode(&n)}, nil
}

func convertNode(n *yaml.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return convertNode(n.Content[0])
	case yaml.AliasNode:
		return convertNode(n.Alias)
	case yaml.MappingNode:
		return convertMapping(n)
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(n.Content))
		for _, c := range n.Content {
			seq = append(seq, convertNode(c))
		}
		return seq
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil
		}
		return Scalar{Value: n.Value, Tag: n.ShortTag()}
	}
	return nil
}

// convertMapping builds a Mapping, splicing in "<<" merge keys. Merged keys
// come first; explicit keys override them in place. In a merge list the
// earlier mappings take precedence.
func convertMapping(n *yaml.Node) *Mapping {
	m := &Mapping{}
	var own []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].ShortTag() == "!!merge" {
			sources := mergeSources(n.Content[i+1])
			for j := len(sources) - 1; j >= 0; j-- {
				merged := convertMapping(sources[j])
				for k, key := range merged.Keys {
					m.set(key, merged.Values[k])
				}
			}
			continue
		}
		own = append(own, n.Content[i], n.Content[i+1])
	}
	for i := 0; i+1 < len(own); i += 2 {
		m.set(own[i].Value, convertNode(own[i+1]))
	}
	return m
}

// mergeSources returns the mappings named by a merge value: one mapping or
// a sequence of them, aliases resolved.
func mergeSources(v *yaml.Node) []*yaml.Node {
	for v.Kind == yaml.AliasNode && v.Alias != nil {
		v = v.Alias
	}
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{v}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, c := range v.Content {
			for c.Kind == yaml.AliasNode && c.Alias != nil {
				c = c.Alias
			}
			if c.Kind == yaml.MappingNode {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

func (m *Mapping) set(key string, value Node) {
	for i, k := range m.Keys {
		if k == key {
			m.Values[i] = value
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

// Presets returns the preset lines of the document. Shapes are tried in
// order: a mapping with a "presets" sequence, a top-level sequence, then a
// nested mapping flattened into "k1:k2: item" lines.
func (d *Document) Presets() []string {
	if d == nil || d.Root == nil {
		return nil
	}
	switch root := d.Root.(type) {
	case *Mapping:
		if v, ok := root.Get("presets"); ok {
			if seq, ok := v.(Sequence); ok {
				return seq.strings()
			}
		}
		return flatten(root, nil)
	case Sequence:
		return root.strings()
	}
	return nil
}

func flatten(m *Mapping, parent []string) []string {
	var lines []string
	for i, key := range m.Keys {
		path := append(append([]string(nil), parent...), key)
		switch v := m.Values[i].(type) {
		case Sequence:
			prefix := strings.Join(path, ":") + ": "
			for _, item := range v {
				if truthy(item) {
					lines = append(lines, prefix+render(item))
				}
			}
		case *Mapping:
			lines = append(lines, flatten(v, path)...)
		case Scalar:
			// Only string leaves are presets; numbers and booleans are skipped.
			if v.Tag == "!!str" {
				lines = append(lines, strings.Join(path, ":")+": "+v.Value)
			}
		}
	}
	return lines
}

// Lookup returns every string leaf under key. A top-level key wins;
// otherwise nested mappings are searched depth first and the first key with
// any content is used.
func (d *Document) Lookup(key string) []string {
	if d == nil {
		return nil
	}
	m, ok := d.Root.(*Mapping)
	if !ok {
		return nil
	}
	if v, ok := m.Get(key); ok {
		return leaves(v)
	}
	return lookupNested(m, key)
}

func lookupNested(m *Mapping, key string) []string {
	for i, k := range m.Keys {
		if k == key {
			return leaves(m.Values[i])
		}
		if child, ok := m.Values[i].(*Mapping); ok {
			if found := lookupNested(child, key); len(found) > 0 {
				return found
			}
		}
	}
	return nil
}

func leaves(n Node) []string {
	switch v := n.(type) {
	case Sequence:
		return v.strings()
	case *Mapping:
		var out []string
		for _, child := range v.Values {
			out = append(out, leaves(child)...)
		}
		return out
	}
	if truthy(n) {
		return []string{render(n)}
	}
	return nil
}

func (s Sequence) strings() []string {
	out := make([]string, 0, len(s))
	for _, item := range s {
		if truthy(item) {
			out = append(out, render(item))
		}
	}
	return out
}

// truthy drops null, empty, false, zero and empty collections.
func truthy(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *Mapping:
		return len(v.Keys) > 0
	case Sequence:
		return len(v) > 0
	case Scalar:
		switch v.Tag {
		case "!!bool":
			return !strings.EqualFold(v.Value, "false")
		case "!!int":
			i, err := strconv.ParseInt(strings.ReplaceAll(v.Value, "_", ""), 0, 64)
			return err != nil || i != 0
		case "!!float":
			f, err := strconv.ParseFloat(v.Value, 64)
			return err != nil || f != 0
		}
		return v.Value != ""
	}
	return false
}

// render turns a node into preset text. Collections use YAML flow style.
func render(n Node) string {
	switch v := n.(type) {
	case Scalar:
		return v.Value
	case Sequence:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = render(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Mapping:
		parts := make([]string, len(v.Keys))
		for i, k := range v.Keys {
			parts[i] = k + ": " + render(v.Values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "null"
}

// StripKeyPath removes a "k1:k2: " prefix added by flattening. The text
// before the first ": " counts as a key path when it contains ':' or is a
// single word.
func StripKeyPath(text string) string {
	keys, content, ok := strings.Cut(text, ": ")
	if !ok {
		return text
	}
	if strings.Contains(keys, ":") || (keys != "" && !strings.Contains(keys, " ")) {
		return content
	}
	return text
}
