package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Variant is a named partial override of a definition.
type Variant struct {
	Name    string   `yaml:"-" json:"-"`
	TagName string   `yaml:"tagName,omitempty" json:"tagName,omitempty"`
	CSS     []string `yaml:"css,omitempty" json:"css,omitempty"`
	Attrs   []Attr   `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// Variants is an ordered map of variant name to overrides. Declaration
// order matters: the first variant is the export fallback.
type Variants []Variant

// Get returns the variant with the given name.
func (vs Variants) Get(name string) (Variant, bool) {
	for _, v := range vs {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Names returns the variant names in declaration order.
func (vs Variants) Names() []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// UnmarshalYAML decodes a mapping while keeping key order.
func (vs *Variants) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variants must be a mapping of name to overrides", node.Line)
	}

	out := make(Variants, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v Variant
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("variant %q: %w", node.Content[i].Value, err)
		}
		v.Name = node.Content[i].Value
		out = append(out, v)
	}

	*vs = out
	return nil
}

// MarshalYAML encodes the variants as an ordered mapping.
func (vs Variants) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range vs {
		value := &yaml.Node{}
		if err := value.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: v.Name}, value)
	}
	return node, nil
}

// MarshalJSON encodes the variants as an object in declaration order.
func (vs Variants) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, v := range vs {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// MergeVariant synthesizes a temporary sub-definition: the base definition
// shallow-overridden by the variant's tag name, css and attrs.
func MergeVariant(base *Definition, v Variant) *Definition {
	merged := *base
	if v.TagName != "" {
		merged.TagName = v.TagName
	}
	if v.CSS != nil {
		merged.CSS = v.CSS
	}
	if v.Attrs != nil {
		merged.Attrs = v.Attrs
	}
	merged.Variants = nil
	return &merged
}
