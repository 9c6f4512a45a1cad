// Package compiler resolves a component definition, and optionally the
// instance data of one placed element, into markup for a build mode.
//
// Compilation is a pure recursive descent: definitions and instance data
// are only read. Definitions that break a compile contract (variants without
// a variant binding, bound properties without a name, children of no known
// kind) cause a panic carrying an *errors.Error of type contract. Such
// definitions are defects in the built-in library; callers registering
// user-authored definitions recover at the registration boundary.
package compiler

import (
	"fmt"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/types"
)

// pass carries the inputs of one single-definition compilation.
type pass struct {
	def     *types.Definition
	flat    []types.Property
	mode    types.BuildMode
	data    *types.InstanceData
	content string
	// variant is the variant being compiled, empty outside variant resolution.
	variant string
}

type variantFactory struct {
	variant string
	factory *factory.Factory
}

// TemplateFor returns the template function of a definition.
func TemplateFor(def *types.Definition) types.TemplateFunc {
	return func(mode types.BuildMode, data *types.InstanceData, content string) string {
		return Compile(def, mode, data, content)
	}
}

// Compile produces the markup of def for mode.
func Compile(def *types.Definition, mode types.BuildMode, data *types.InstanceData, content string) string {
	switchExpr, factories := resolve(def, mode, data, content)
	if switchExpr == "" {
		return factories[0].factory.Build()
	}

	cases := make([]factory.SwitchCase, len(factories))
	for i, vf := range factories {
		cases[i] = factory.SwitchCase{Value: vf.variant, Markup: vf.factory.Build()}
	}
	return factory.BuildSwitch(switchExpr, cases)
}

// Inspect returns snapshots of the factories Compile would serialize, one
// per compiled variant.
func Inspect(def *types.Definition, mode types.BuildMode, data *types.InstanceData, content string) []factory.Record {
	_, factories := resolve(def, mode, data, content)
	records := make([]factory.Record, len(factories))
	for i, vf := range factories {
		records[i] = vf.factory.Record()
	}
	return records
}

// resolve compiles def into one factory, or into one factory per variant.
// The returned switch expression is empty unless every variant is present.
func resolve(def *types.Definition, mode types.BuildMode, data *types.InstanceData, content string) (string, []variantFactory) {
	if def == nil {
		panic(ferrors.NewContractError(ferrors.CodeInvalidDefinition, "cannot compile a nil definition"))
	}

	flat := def.FlatProperties()
	variantProp, hasVariantProp := findVariantProperty(flat)

	if !hasVariantProp {
		if len(def.Variants) > 0 {
			panic(ferrors.NewContractError(ferrors.CodeMissingVariantKey,
				fmt.Sprintf("variants are declared but no property has a %q binding", types.BindVariant)).
				WithComponent(def.ID))
		}
		f := compileSingle(pass{def: def, flat: flat, mode: mode, data: data, content: content})
		return "", []variantFactory{{factory: f}}
	}

	if variantProp.Name == "" {
		panic(ferrors.NewContractError(ferrors.CodeMissingName, "variant property has no name").
			WithComponent(def.ID))
	}
	if len(def.Variants) == 0 {
		panic(ferrors.NewContractError(ferrors.CodeMissingVariantKey,
			fmt.Sprintf("variant property %q has no variants to select from", variantProp.Name)).
			WithComponent(def.ID))
	}

	if mode == types.Internal {
		factories := make([]variantFactory, 0, len(def.Variants))
		for _, v := range def.Variants {
			sub := types.MergeVariant(def, v)
			f := compileSingle(pass{def: sub, flat: flat, mode: mode, data: data, content: content, variant: v.Name})
			factories = append(factories, variantFactory{variant: v.Name, factory: f})
		}
		return factory.InputExpr(variantProp.Name), factories
	}

	v := selectVariant(def.Variants, variantProp, data)
	sub := types.MergeVariant(def, v)
	f := compileSingle(pass{def: sub, flat: flat, mode: mode, data: data, content: content, variant: v.Name})
	return "", []variantFactory{{variant: v.Name, factory: f}}
}

func findVariantProperty(flat []types.Property) (types.Property, bool) {
	for _, p := range flat {
		if p.Bind == types.BindVariant {
			return p, true
		}
	}
	return types.Property{}, false
}

// selectVariant returns the variant selected by the instance, falling back
// to the first declared variant when unset or unmatched.
func selectVariant(variants types.Variants, prop types.Property, data *types.InstanceData) types.Variant {
	if raw, ok := data.Input(prop.Name); ok {
		if v, found := variants.Get(types.Stringify(raw)); found {
			return v
		}
	}
	return variants[0]
}

// compileSingle compiles one definition without variants into a factory.
func compileSingle(p pass) *factory.Factory {
	def := p.def

	if def.TagName == "" && !hasTagBinding(p.flat) {
		panic(ferrors.NewContractError(ferrors.CodeNoTagName, "definition resolves no tag name").
			WithComponent(def.ID))
	}

	f := factory.New(p.mode, def.TagName, p.data)
	outer := f
	if def.WrapperTag != "" && p.mode == types.Internal {
		wrapper := factory.New(p.mode, def.WrapperTag, nil)
		f.AddWrapper(wrapper)
		outer = wrapper
	}

	if p.mode == types.Internal {
		if !def.InnerChild {
			addScaffolding(outer)
		}
		if def.FitContent {
			outer.AddClass(ClassFitContent)
		}
	}

	addClasses(f, p)
	addStaticAttributes(f, p)

	if p.mode == types.Internal {
		for _, d := range def.Directives {
			f.AddDirective(d)
		}
		if def.ChildrenAllowed {
			f.AllowChildren()
		}
	}

	addChildren(f, p)

	if p.mode == types.Internal {
		addPortalSlots(f, p)
	}

	if p.mode.IsExport() {
		if p.content != "" {
			f.AddChild(p.content)
		}
		if def.ExportTagName != "" {
			f.SetTagName(def.ExportTagName)
		}
	}

	if p.mode == types.Internal {
		if def.BindIf != "" {
			outer.AddIf(factory.InputExpr(def.BindIf))
		}
		addOutputs(f, def.Outputs)
	}

	addBindings(f, p)

	return f
}

func hasTagBinding(flat []types.Property) bool {
	for _, p := range flat {
		if p.Bind == types.BindTagName && len(p.MenuData) > 0 {
			return true
		}
	}
	return false
}
