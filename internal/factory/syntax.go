package factory

import (
	"fmt"
	"strings"
)

// Names of the render-context variables available to live templates.
const (
	// PropsVar is the element currently being rendered.
	PropsVar = "props"
	// AncestorsVar is the chain of element ids above the current element.
	AncestorsVar = "ancestors"
	// ElementsVar is the live element map keyed by id.
	ElementsVar = "elements"
	// DatasetsVar is the live dataset map used by dataset-select inputs.
	DatasetsVar = "datasets"
	// ChildDispatchRef names the generic child-dispatch template.
	ChildDispatchRef = "renderChildren"
)

// Pipes applied by live bindings.
const (
	PipeAttrValue  = "attrValue"
	PipeSafeHTML   = "safeHtml"
	PipeDataset    = "datasetValue"
	PipeFullIDPath = "fullIdPath"
)

// Live template directives.
const (
	DirectiveIf     = "*ngIf"
	DirectiveFor    = "*ngFor"
	DirectiveSwitch = "[ngSwitch]"
	DirectiveCase   = "*ngSwitchCase"
	DirectiveOutlet = "*ngTemplateOutlet"
	ContainerTag    = "ng-container"
	TemplateTag     = "ng-template"
)

// InputExpr returns the live expression reading a named input of the
// current element.
func InputExpr(name string) string {
	return InputExprOf(PropsVar, name)
}

// InputExprOf returns the live expression reading a named input of the
// element held in variable v.
func InputExprOf(v, name string) string {
	return fmt.Sprintf("%s?.inputs?.%s", v, name)
}

// Quote renders s as a single-quoted template string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

// ChildDispatch returns the outlet that renders a list of child ids through
// the generic child-dispatch template.
func ChildDispatch(childIDsExpr, ancestorsExpr string) string {
	return fmt.Sprintf(`<%s %s="%s; context: { $implicit: %s, %s: %s }"></%s>`,
		ContainerTag, DirectiveOutlet, ChildDispatchRef, childIDsExpr, AncestorsVar, ancestorsExpr, ContainerTag)
}

// AppendAncestor returns the expression extending the ancestor chain with
// the current element.
func AppendAncestor() string {
	return fmt.Sprintf("(%s || []).concat(%s?.id)", AncestorsVar, PropsVar)
}

// Ident turns an id or property name into a template reference identifier.
func Ident(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SwitchCase is one case of a switch block.
type SwitchCase struct {
	Value  string
	Markup string
}

// BuildSwitch serializes a switch block with one case per value.
func BuildSwitch(expr string, cases []SwitchCase) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s %s="%s">`, ContainerTag, DirectiveSwitch, expr)
	for _, c := range cases {
		fmt.Fprintf(&b, `<%s %s="%s">%s</%s>`, ContainerTag, DirectiveCase, Quote(c.Value), c.Markup, ContainerTag)
	}
	fmt.Fprintf(&b, `</%s>`, ContainerTag)
	return b.String()
}
