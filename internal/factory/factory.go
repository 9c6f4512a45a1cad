// Package factory provides the per-tag markup builder used by the compiler.
//
// A Factory accumulates attributes, bindings, directives and child content
// for one tag through a chained interface and serializes them with Build.
// The same factory produces live markup (Internal mode) or static markup
// (Simple and Application modes); mode-aware setters decide which.
package factory

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/forge/internal/types"
)

// voidElements never carry content or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type attribute struct {
	key   string
	value string
	bare  bool
}

// Factory builds the markup of a single tag.
type Factory struct {
	mode       types.BuildMode
	tagName    string
	attrs      []attribute
	index      map[string]int
	classes    []string
	directives []string
	content    strings.Builder
	wrapper    *Factory

	switchBinding string
	switchTags    []string
}

// New creates a factory for tagName. In export modes, when instance data is
// supplied, the instance's raw attributes and its per-instance class name
// are seeded. Attributes whose key is not a valid attribute name are
// skipped.
func New(mode types.BuildMode, tagName string, data *types.InstanceData) *Factory {
	f := &Factory{
		mode:    mode,
		tagName: tagName,
		index:   make(map[string]int),
	}

	if mode.IsExport() && data != nil {
		f.AddInstanceAttributes(data.Attrs)
		if data.ID != "" {
			f.AddClass(types.ElementClassName(data.ID))
		}
	}

	return f
}

// AddInstanceAttributes adds attributes supplied with instance data,
// dropping any whose key is not a valid attribute name.
func (f *Factory) AddInstanceAttributes(attrs []types.Attr) *Factory {
	for _, a := range attrs {
		if ValidAttributeName(a.Key) {
			f.AddAttribute(a.Key, a.Value)
		}
	}
	return f
}

// ValidAttributeName reports whether key can be written as an attribute
// name: non-empty, with no whitespace, quotes, '>', '/', '=' or control
// characters.
func ValidAttributeName(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r <= 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return false
		case strings.ContainsRune("\"'>/=<", r):
			return false
		}
	}
	return true
}

// Mode returns the build mode the factory was created for.
func (f *Factory) Mode() types.BuildMode {
	return f.mode
}

// TagName returns the current tag name.
func (f *Factory) TagName() string {
	return f.tagName
}

// SetTagName overwrites the tag name.
func (f *Factory) SetTagName(tagName string) *Factory {
	f.tagName = tagName
	return f
}

// set stores an attribute, keeping the original slot of a re-set key.
func (f *Factory) set(key, value string, bare bool) *Factory {
	if i, ok := f.index[key]; ok {
		f.attrs[i] = attribute{key: key, value: value, bare: bare}
		return f
	}
	f.index[key] = len(f.attrs)
	f.attrs = append(f.attrs, attribute{key: key, value: value, bare: bare})
	return f
}

// Attribute returns the raw stored value of key.
func (f *Factory) Attribute(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.attrs[i].value, true
}

// AddAttribute adds a plain key="value" attribute. A "class" attribute is
// merged into the class list.
func (f *Factory) AddAttribute(key, value string) *Factory {
	if key == "class" {
		return f.AddClass(strings.Fields(value)...)
	}
	return f.set(key, value, false)
}

// AddBooleanAttribute adds a valueless attribute when on is true.
func (f *Factory) AddBooleanAttribute(key string, on bool) *Factory {
	if !on {
		return f
	}
	return f.set(key, "", true)
}

// AddBoundAttribute adds a [key]="expr" binding.
func (f *Factory) AddBoundAttribute(key, expr string) *Factory {
	return f.set("["+key+"]", expr, false)
}

// AddOutputBinding adds an (event)="handler" binding.
func (f *Factory) AddOutputBinding(event, handler string) *Factory {
	return f.set("("+event+")", handler, false)
}

// AddAttrBinding adds an attribute-namespaced binding. The value passes
// through the attrValue pipe so false, null and undefined omit the
// attribute at render time.
func (f *Factory) AddAttrBinding(key, expr string) *Factory {
	return f.set("[attr."+key+"]", expr+" | "+PipeAttrValue, false)
}

// AddInnerText interpolates expr in live mode, or appends the escaped
// literal value in export modes.
func (f *Factory) AddInnerText(expr string, value interface{}) *Factory {
	if f.mode == types.Internal {
		f.content.WriteString("{{ " + expr + " }}")
		return f
	}
	if value != nil {
		f.content.WriteString(html.EscapeString(types.Stringify(value)))
	}
	return f
}

// AddInnerHTML binds raw HTML plus the rich-text flag in live mode, or
// appends the literal value in export modes.
func (f *Factory) AddInnerHTML(expr string, value interface{}) *Factory {
	if f.mode == types.Internal {
		f.AddBoundAttribute("innerHTML", expr+" | "+PipeSafeHTML)
		return f.AddBoundAttribute("richText", "true")
	}
	if value != nil {
		f.content.WriteString(types.Stringify(value))
	}
	return f
}

// AddClass adds static CSS classes, ignoring duplicates.
func (f *Factory) AddClass(names ...string) *Factory {
	for _, name := range names {
		if name == "" || f.hasClass(name) {
			continue
		}
		f.classes = append(f.classes, name)
	}
	return f
}

func (f *Factory) hasClass(name string) bool {
	for _, c := range f.classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddClassBinding toggles className from expr.
func (f *Factory) AddClassBinding(className, expr string) *Factory {
	return f.AddBoundAttribute("class."+className, expr)
}

// AddClassInput binds the class list to a named input expression.
func (f *Factory) AddClassInput(expr string) *Factory {
	return f.AddBoundAttribute("ngClass", expr)
}

// AddDirective appends a raw directive string.
func (f *Factory) AddDirective(directive string) *Factory {
	f.directives = append(f.directives, directive)
	return f
}

// AddChild appends literal or pre-rendered markup.
func (f *Factory) AddChild(markup string) *Factory {
	f.content.WriteString(markup)
	return f
}

// Content returns the accumulated child content.
func (f *Factory) Content() string {
	return f.content.String()
}

// AddWrapper nests this factory's output inside wrapper's content.
func (f *Factory) AddWrapper(wrapper *Factory) *Factory {
	f.wrapper = wrapper
	return f
}

// Wrapper returns the wrapper factory, if any.
func (f *Factory) Wrapper() *Factory {
	return f.wrapper
}

// AllowChildren injects the child-dispatch outlet so declared child ids are
// rendered by the catalog's generic iterator. It only applies in live mode.
func (f *Factory) AllowChildren() *Factory {
	if f.mode != types.Internal {
		return f
	}
	return f.AddChild(ChildDispatch(PropsVar+"?.childIds", AppendAncestor()))
}

// AddIf sets the conditional-render expression. A later call overwrites an
// earlier one.
func (f *Factory) AddIf(expr string) *Factory {
	return f.set(DirectiveIf, expr, false)
}

// AddFor sets the loop expression. A later call overwrites an earlier one.
func (f *Factory) AddFor(expr string) *Factory {
	return f.set(DirectiveFor, expr, false)
}

// SetTagSwitch makes Build emit one switch case per candidate tag, keyed by
// the binding expression.
func (f *Factory) SetTagSwitch(binding string, tags []string) *Factory {
	f.switchBinding = binding
	f.switchTags = append([]string(nil), tags...)
	return f
}

// IsTagSwitch reports whether a tag switch is registered.
func (f *Factory) IsTagSwitch() bool {
	return f.switchBinding != "" && len(f.switchTags) > 0
}

// Build serializes the factory. It does not modify the factory, so repeated
// calls return the same string.
func (f *Factory) Build() string {
	return f.buildWith("")
}

func (f *Factory) buildWith(extra string) string {
	var out string
	if f.IsTagSwitch() {
		cases := make([]SwitchCase, len(f.switchTags))
		for i, tag := range f.switchTags {
			cases[i] = SwitchCase{Value: tag, Markup: f.buildTag(tag, extra)}
		}
		out = BuildSwitch(f.switchBinding, cases)
	} else {
		out = f.buildTag(f.tagName, extra)
	}

	if f.wrapper != nil {
		return f.wrapper.buildWith(out)
	}
	return out
}

func (f *Factory) buildTag(tag, extra string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)

	if len(f.classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(f.classes, " ")))
		b.WriteString(`"`)
	}

	for _, a := range f.attrs {
		b.WriteString(" ")
		b.WriteString(a.key)
		if a.bare {
			continue
		}
		b.WriteString(`="`)
		if isBinding(a.key) {
			b.WriteString(a.value)
		} else {
			b.WriteString(html.EscapeString(a.value))
		}
		b.WriteString(`"`)
	}

	for _, d := range f.directives {
		b.WriteString(" ")
		b.WriteString(d)
	}

	b.WriteString(">")

	content := f.content.String() + extra
	if voidElements[strings.ToLower(tag)] && content == "" {
		return b.String()
	}

	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return b.String()
}

// isBinding reports whether an attribute key holds a live expression, which
// is emitted verbatim.
func isBinding(key string) bool {
	return strings.HasPrefix(key, "[") || strings.HasPrefix(key, "(") || strings.HasPrefix(key, "*")
}
