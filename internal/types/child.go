package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Child is one entry rendered into a parent's body: literal markup, a nested
// definition, or a template function. Exactly one field is expected to be set.
type Child struct {
	Markup     string
	Definition *Definition
	Template   TemplateFunc
}

// TextChild returns a literal markup child.
func TextChild(markup string) Child {
	return Child{Markup: markup}
}

// DefinitionChild returns a nested definition child.
func DefinitionChild(def *Definition) Child {
	return Child{Definition: def}
}

// TemplateChild returns a template function child.
func TemplateChild(fn TemplateFunc) Child {
	return Child{Template: fn}
}

// UnmarshalYAML accepts either a scalar (literal markup) or a mapping
// (nested definition).
func (c *Child) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		c.Markup = node.Value
		return nil
	case yaml.MappingNode:
		var def Definition
		if err := node.Decode(&def); err != nil {
			return err
		}
		c.Definition = &def
		return nil
	default:
		return fmt.Errorf("line %d: child must be a string or a definition", node.Line)
	}
}

// MarshalYAML encodes literal children as strings and nested definitions as mappings.
func (c Child) MarshalYAML() (interface{}, error) {
	if c.Definition != nil {
		return c.Definition, nil
	}
	return c.Markup, nil
}

// MarshalJSON mirrors MarshalYAML. Template function children encode as null.
func (c Child) MarshalJSON() ([]byte, error) {
	switch {
	case c.Definition != nil:
		return json.Marshal(c.Definition)
	case c.Template != nil:
		return []byte("null"), nil
	default:
		return json.Marshal(c.Markup)
	}
}
