// Package validation checks component definitions before registration.
//
// Validate is pure and never panics: every check runs independently so a
// single call reports every problem in a definition at once.
package validation

import (
	"fmt"
	"strings"

	"github.com/conneroisu/forge/internal/types"
)

// Error kinds reported in ValidationError.Type.
const (
	TypeDefinition = "definition"
	TypeProperty   = "property"
	TypeOutput     = "output"
)

// ValidationError describes one schema problem.
type ValidationError struct {
	Type    string `json:"type" yaml:"type"`
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Type, e.Name, e.Message)
}

// Errors is a list of validation errors usable as a single error value.
type Errors []ValidationError

// Error implements the error interface
func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate returns every schema error in the definition.
func Validate(def *types.Definition) []ValidationError {
	var errs []ValidationError
	add := func(typ, name, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Type: typ, Name: name, Message: fmt.Sprintf(format, args...)})
	}

	if def == nil {
		add(TypeDefinition, "definition", "definition is nil")
		return errs
	}

	if def.Title == "" {
		add(TypeDefinition, "title", "title is required")
	}

	flat := def.FlatProperties()

	if len(def.Variants) > 0 {
		variantProp, ok := def.VariantProperty()
		switch {
		case !ok:
			add(TypeDefinition, "variants", "variants are declared but no property has a %q binding", types.BindVariant)
		case variantProp.Name == "":
			add(TypeProperty, "variants", "the %q binding property requires a name", types.BindVariant)
		default:
			for _, key := range def.Variants.Names() {
				if !menuHasValue(variantProp.MenuData, key) {
					add(TypeProperty, variantProp.Name, "menuData is missing an entry for variant %q", key)
				}
			}
		}
	}

	if !resolvesTagName(def, flat) {
		add(TypeDefinition, "tagName",
			"tagName is required unless every variant supplies one or a %q property has menuData", types.BindTagName)
	}

	for i, p := range flat {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("properties[%d]", i)
		}
		if p.IsBound() && p.Name == "" {
			add(TypeProperty, name, "bound property requires a name")
		}
		if p.Bind == types.BindTagName && len(p.MenuData) == 0 {
			add(TypeProperty, name, "a %q binding requires non-empty menuData", types.BindTagName)
		}
		if p.MenuData != nil && len(p.MenuData) == 0 {
			add(TypeProperty, name, "menuData must not be empty")
		}
	}

	for i, o := range def.Outputs {
		if o.Binding == "" {
			add(TypeOutput, fmt.Sprintf("outputs[%d]", i), "output requires a binding")
		}
	}

	return errs
}

// resolvesTagName reports whether a tag name comes from the definition, from
// every variant, or from a tag-name binding property with menu data.
func resolvesTagName(def *types.Definition, flat []types.Property) bool {
	if def.TagName != "" {
		return true
	}

	if len(def.Variants) > 0 {
		all := true
		for _, v := range def.Variants {
			if v.TagName == "" {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	for _, p := range flat {
		if p.Bind == types.BindTagName && len(p.MenuData) > 0 {
			return true
		}
	}

	return false
}

func menuHasValue(items []types.MenuItem, value string) bool {
	for _, item := range items {
		if item.Value == value {
			return true
		}
	}
	return false
}
