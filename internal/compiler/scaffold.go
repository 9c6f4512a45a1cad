package compiler

import (
	"fmt"

	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/types"
)

// Classes applied by live-mode scaffolding.
const (
	ClassRenderRect      = "render-rect-marker"
	ClassRenderedElement = "rendered-element"
	ClassPreviewStyles   = "show-preview-styles"
	ClassFitContent      = "fit-content"
	ClassPortalOutlet    = "portal-outlet"
	ClassPortalZeroState = "portal-zero-state"
)

// addScaffolding adds the attributes the editor renderer needs on every
// top-level element. None of them reach export output.
func addScaffolding(f *factory.Factory) {
	props := factory.PropsVar

	f.AddClass(ClassRenderRect, ClassRenderedElement).
		AddAttrBinding("data-id", props+"?.id").
		AddAttrBinding("data-full-id-path",
			fmt.Sprintf("%s | %s: %s?.id", factory.AncestorsVar, factory.PipeFullIDPath, props)).
		AddBoundAttribute("styleMap", props+"?.styles").
		AddBoundAttribute("classPrefix", props+"?.id").
		AddClassBinding(ClassPreviewStyles, props+"?.showPreviewStyles").
		AddDirective(fmt.Sprintf(`[hiddenInput]="%s"`, factory.InputExpr("hidden"))).
		AddBoundAttribute("tooltip", factory.InputExpr("tooltip")).
		AddBoundAttribute("tooltipPosition", factory.InputExpr("tooltipPosition")).
		AddDirective(fmt.Sprintf(`[elementAttrs]="%s?.attrs"`, props)).
		AddDirective(fmt.Sprintf(`[a11yAttrs]="%s?.a11yInputs"`, props))
}

// addClasses adds static classes and input-bound classes.
func addClasses(f *factory.Factory, p pass) {
	f.AddClass(p.def.CSS...)

	for _, cb := range p.def.ClassBindings {
		if p.mode == types.Internal {
			f.AddClassBinding(cb.ClassName, factory.InputExpr(cb.Input))
			continue
		}
		if types.IsMeaningful(valueOf(p, cb.Input, nil)) {
			f.AddClass(cb.ClassName)
		}
	}
}

// addStaticAttributes adds the definition's attributes and accessibility
// attributes, plus the instance's accessibility inputs in export modes.
func addStaticAttributes(f *factory.Factory, p pass) {
	for _, a := range p.def.Attrs {
		f.AddAttribute(a.Key, a.Value)
	}
	for _, a := range p.def.A11yAttrs {
		f.AddAttribute(a.Key, a.Value)
	}
	if p.mode.IsExport() && p.data != nil {
		f.AddInstanceAttributes(p.data.A11yInputs)
	}
}

// addOutputs binds each output event to the renderer's output handler.
func addOutputs(f *factory.Factory, outputs []types.Output) {
	for _, o := range outputs {
		handler := fmt.Sprintf("onOutput($event, %s, %s, %s, %t)",
			factory.PropsVar, factory.Quote(o.Binding), factory.Quote(o.EventKeyPath), o.WritesValue)
		f.AddOutputBinding(o.Event(), handler)
	}
}

// valueOf resolves an export value from instance data, falling back to the
// property default.
func valueOf(p pass, name string, fallback interface{}) interface{} {
	if v, ok := p.data.Input(name); ok {
		return v
	}
	return fallback
}
