// Package types provides the component definition schema and the instance
// data shapes shared by the validator, compiler, registry and template manager.
// This package contains shared types to avoid circular dependencies between packages.
package types

import (
	"time"
)

// BindingKind selects how a property reaches the generated markup.
type BindingKind string

const (
	// BindProperty is the default binding: a bound input on the element.
	BindProperty  BindingKind = ""
	BindNone      BindingKind = "none"
	BindAttribute BindingKind = "attribute"
	BindInnerText BindingKind = "innerText"
	BindInnerHTML BindingKind = "innerHTML"
	BindTagName   BindingKind = "tagName"
	BindCSSVar    BindingKind = "cssVar"
	BindVariant   BindingKind = "variant"
)

// PropertyType is the editor kind of a property.
type PropertyType string

const (
	PropertyText     PropertyType = "text"
	PropertyNumber   PropertyType = "number"
	PropertyBoolean  PropertyType = "boolean"
	PropertySelect   PropertyType = "select"
	PropertyColor    PropertyType = "color"
	PropertyGroup    PropertyType = "group"
	PropertyOpacity  PropertyType = "opacity"
	PropertyPosition PropertyType = "position"
	PropertySize     PropertyType = "size"
	PropertyAdvanced PropertyType = "advanced"
	PropertyHidden   PropertyType = "hidden"
	PropertyTooltip  PropertyType = "tooltip"
)

// InputType is the value kind carried by an instance input.
type InputType string

const (
	InputString        InputType = "string"
	InputNumber        InputType = "number"
	InputBoolean       InputType = "boolean"
	InputPortalSlot    InputType = "portalSlot"
	InputDatasetSelect InputType = "datasetSelect"
	InputList          InputType = "list"
	InputDynamicList   InputType = "dynamicList"
	InputImage         InputType = "image"
)

// Attr is an ordered key/value attribute pair.
type Attr struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// MenuItem is one selectable entry of a property's menu.
type MenuItem struct {
	Title string `yaml:"title" json:"title"`
	Value string `yaml:"value" json:"value"`
}

// Frame is the geometry of an element on the canvas.
type Frame struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Property is either a leaf property or, when Children is set, a nested
// group used for collapsible editor sections.
type Property struct {
	Name      string       `yaml:"name,omitempty" json:"name,omitempty"`
	Label     string       `yaml:"label,omitempty" json:"label,omitempty"`
	Type      PropertyType `yaml:"type,omitempty" json:"type,omitempty"`
	InputType InputType    `yaml:"inputType,omitempty" json:"inputType,omitempty"`
	Bind      BindingKind  `yaml:"bind,omitempty" json:"bind,omitempty"`
	Default   interface{}  `yaml:"default,omitempty" json:"default,omitempty"`
	MenuData  []MenuItem   `yaml:"menuData,omitempty" json:"menuData,omitempty"`
	// Variant restricts the property to one variant of the definition.
	Variant                 string     `yaml:"variant,omitempty" json:"variant,omitempty"`
	Children                []Property `yaml:"children,omitempty" json:"children,omitempty"`
	Schema                  []Property `yaml:"schema,omitempty" json:"schema,omitempty"`
	SupportsUniqueSelection bool       `yaml:"supportsUniqueSelection,omitempty" json:"supportsUniqueSelection,omitempty"`
	DataBindable            bool       `yaml:"dataBindable,omitempty" json:"dataBindable,omitempty"`
}

// IsGroup reports whether the property only nests other properties.
func (p *Property) IsGroup() bool {
	return p.Type == PropertyGroup || p.Type == PropertyAdvanced || len(p.Children) > 0
}

// IsBound reports whether the property emits any binding.
func (p *Property) IsBound() bool {
	return !p.IsGroup() && p.Bind != BindNone
}

// Output describes an event emitted by an element.
type Output struct {
	Binding      string `yaml:"binding" json:"binding"`
	EventName    string `yaml:"eventName,omitempty" json:"eventName,omitempty"`
	EventKeyPath string `yaml:"eventKeyPath,omitempty" json:"eventKeyPath,omitempty"`
	WritesValue  bool   `yaml:"writesValue,omitempty" json:"writesValue,omitempty"`
}

// Event returns the DOM event name the output listens on.
func (o Output) Event() string {
	if o.EventName != "" {
		return o.EventName
	}
	return o.Binding
}

// ClassBinding toggles a CSS class from a named boolean input.
type ClassBinding struct {
	ClassName string `yaml:"className" json:"className"`
	Input     string `yaml:"input" json:"input"`
}

// TemplateFunc compiles a definition for one build mode. Instance data and
// child content are optional.
type TemplateFunc func(mode BuildMode, data *InstanceData, content string) string

// Definition is the declarative schema for one kind of placeable element.
type Definition struct {
	ID            string         `yaml:"id" json:"id"`
	Aliases       []string       `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Title         string         `yaml:"title" json:"title"`
	Library       string         `yaml:"library,omitempty" json:"library,omitempty"`
	Icon          string         `yaml:"icon,omitempty" json:"icon,omitempty"`
	TagName       string         `yaml:"tagName,omitempty" json:"tagName,omitempty"`
	WrapperTag    string         `yaml:"wrapperTag,omitempty" json:"wrapperTag,omitempty"`
	ExportTagName string         `yaml:"exportTagName,omitempty" json:"exportTagName,omitempty"`
	CSS           []string       `yaml:"css,omitempty" json:"css,omitempty"`
	ClassBindings []ClassBinding `yaml:"classBindings,omitempty" json:"classBindings,omitempty"`
	Attrs         []Attr         `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	A11yAttrs     []Attr         `yaml:"a11yAttrs,omitempty" json:"a11yAttrs,omitempty"`
	Directives    []string       `yaml:"directives,omitempty" json:"directives,omitempty"`
	Properties    []Property     `yaml:"properties,omitempty" json:"properties,omitempty"`
	Variants      Variants       `yaml:"variants,omitempty" json:"variants,omitempty"`
	Outputs       []Output       `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Children      []Child        `yaml:"children,omitempty" json:"children,omitempty"`

	ChildrenAllowed    bool `yaml:"childrenAllowed,omitempty" json:"childrenAllowed,omitempty"`
	PreventResize      bool `yaml:"preventResize,omitempty" json:"preventResize,omitempty"`
	ExportPropsAsAttrs bool `yaml:"exportPropsAsAttrs,omitempty" json:"exportPropsAsAttrs,omitempty"`
	// AutoAddDefaultProperties defaults to true when unset.
	AutoAddDefaultProperties *bool `yaml:"autoAddDefaultProperties,omitempty" json:"autoAddDefaultProperties,omitempty"`
	Deprecated               bool  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	FitContent               bool  `yaml:"fitContent,omitempty" json:"fitContent,omitempty"`
	// BindIf names an input that gates rendering of the element.
	BindIf string `yaml:"bindIf,omitempty" json:"bindIf,omitempty"`
	// SharedTemplate names another definition whose catalog block this one reuses.
	SharedTemplate string `yaml:"sharedTemplate,omitempty" json:"sharedTemplate,omitempty"`
	Frame          *Frame `yaml:"frame,omitempty" json:"frame,omitempty"`

	// InnerChild marks a definition compiled as a nested child of another.
	InnerChild bool `yaml:"-" json:"-"`
	// CodeComponent marks a user-authored definition that may be replaced.
	CodeComponent bool `yaml:"-" json:"-"`
}

// AddsDefaultProperties reports whether default property groups are injected.
func (d *Definition) AddsDefaultProperties() bool {
	return d.AutoAddDefaultProperties == nil || *d.AutoAddDefaultProperties
}

// FlatProperties returns the definition's properties with groups flattened.
func (d *Definition) FlatProperties() []Property {
	return FlattenProperties(d.Properties)
}

// VariantProperty returns the property with the variant binding, if any.
func (d *Definition) VariantProperty() (Property, bool) {
	for _, p := range d.FlatProperties() {
		if p.Bind == BindVariant {
			return p, true
		}
	}
	return Property{}, false
}

// InstanceData is a read-only snapshot of one placed element.
type InstanceData struct {
	ID                string                 `yaml:"id" json:"id"`
	Type              string                 `yaml:"type" json:"type"`
	Inputs            map[string]interface{} `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Attrs             []Attr                 `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	A11yInputs        []Attr                 `yaml:"a11yInputs,omitempty" json:"a11yInputs,omitempty"`
	ShowPreviewStyles bool                   `yaml:"showPreviewStyles,omitempty" json:"showPreviewStyles,omitempty"`
	ChildIDs          []string               `yaml:"childIds,omitempty" json:"childIds,omitempty"`
	Styles            map[string]string      `yaml:"styles,omitempty" json:"styles,omitempty"`
	Frame             *Frame                 `yaml:"frame,omitempty" json:"frame,omitempty"`
}

// Input returns the named input value. It is safe to call on a nil receiver.
func (d *InstanceData) Input(name string) (interface{}, bool) {
	if d == nil || d.Inputs == nil {
		return nil, false
	}
	v, ok := d.Inputs[name]
	return v, ok
}

// EventType represents the type of registry change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// ComponentEvent represents a change in the component registry, used for
// real-time notifications to watchers like the preview server.
type ComponentEvent struct {
	Type        EventType   `json:"type"`
	ComponentID string      `json:"componentId"`
	Definition  *Definition `json:"definition,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
