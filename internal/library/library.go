// Package library holds the built-in component definitions.
//
// Built-ins are registered once per registry. Registering one twice is a
// programming error and panics, unlike code components which may be
// replaced at runtime.
package library

import (
	"fmt"
	"strings"

	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/registry"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
)

// Name is the library every built-in belongs to.
const Name = "core"

func menu(values ...string) []types.MenuItem {
	items := make([]types.MenuItem, len(values))
	for i, v := range values {
		items[i] = types.MenuItem{Title: v, Value: v}
	}
	return items
}

// Definitions returns fresh copies of every built-in definition.
func Definitions() []*types.Definition {
	defs := []*types.Definition{
		{
			ID:              "board",
			Title:           "Board",
			Icon:            "dashboard",
			TagName:         "div",
			CSS:             []string{"board"},
			ChildrenAllowed: true,
			Properties: []types.Property{
				{Name: "background", Label: "Background", Type: types.PropertyColor, Bind: types.BindCSSVar},
			},
		},
		{
			ID:              "container",
			Aliases:         []string{"div"},
			Title:           "Container",
			Icon:            "crop_square",
			TagName:         "div",
			ChildrenAllowed: true,
			Properties: []types.Property{
				{Name: "direction", Label: "Direction", Type: types.PropertySelect, Bind: types.BindAttribute,
					Default: "column", MenuData: menu("row", "column")},
			},
		},
		{
			ID:              "group",
			Title:           "Group",
			Icon:            "select_all",
			TagName:         "div",
			ChildrenAllowed: true,
			SharedTemplate:  "container",
			Properties: []types.Property{
				{Name: "direction", Label: "Direction", Type: types.PropertySelect, Bind: types.BindAttribute,
					Default: "column", MenuData: menu("row", "column")},
			},
		},
		{
			ID:      "text",
			Aliases: []string{"paragraph"},
			Title:   "Text",
			Icon:    "notes",
			TagName: "p",
			Properties: []types.Property{
				{Name: "text", Label: "Text", Type: types.PropertyText, InputType: types.InputString,
					Bind: types.BindInnerText, Default: "Text", DataBindable: true},
			},
		},
		{
			ID:    "heading",
			Title: "Heading",
			Icon:  "title",
			Properties: []types.Property{
				{Name: "level", Label: "Level", Type: types.PropertySelect, Bind: types.BindTagName,
					Default: "h1", MenuData: menu("h1", "h2", "h3", "h4", "h5", "h6")},
				{Name: "text", Label: "Text", Type: types.PropertyText, InputType: types.InputString,
					Bind: types.BindInnerText, Default: "Heading", DataBindable: true},
			},
		},
		{
			ID:         "rich-text",
			Title:      "Rich text",
			Icon:       "article",
			TagName:    "div",
			CSS:        []string{"rich-text"},
			FitContent: true,
			Properties: []types.Property{
				{Name: "html", Label: "Content", Type: types.PropertyText, Bind: types.BindInnerHTML},
			},
		},
		{
			ID:        "button",
			Aliases:   []string{"btn"},
			Title:     "Button",
			Icon:      "smart_button",
			CSS:       []string{"btn"},
			A11yAttrs: []types.Attr{{Key: "role", Value: "button"}},
			Properties: []types.Property{
				{Name: "variant", Label: "Variant", Type: types.PropertySelect, Bind: types.BindVariant,
					Default: "primary", MenuData: []types.MenuItem{
						{Title: "Primary", Value: "primary"},
						{Title: "Secondary", Value: "secondary"},
						{Title: "Link", Value: "link"},
					}},
				{Name: "label", Label: "Label", Type: types.PropertyText, InputType: types.InputString,
					Bind: types.BindInnerText, Default: "Button", DataBindable: true},
				{Name: "disabled", Label: "Disabled", Type: types.PropertyBoolean, InputType: types.InputBoolean,
					Bind: types.BindAttribute, Default: false},
				{Name: "href", Label: "URL", Type: types.PropertyText, Bind: types.BindAttribute, Variant: "link"},
			},
			Variants: types.Variants{
				{Name: "primary", TagName: "button", CSS: []string{"btn", "btn-primary"},
					Attrs: []types.Attr{{Key: "type", Value: "button"}}},
				{Name: "secondary", TagName: "button", CSS: []string{"btn", "btn-secondary"},
					Attrs: []types.Attr{{Key: "type", Value: "button"}}},
				{Name: "link", TagName: "a", CSS: []string{"btn", "btn-link"}},
			},
			Outputs: []types.Output{{Binding: "clicked", EventName: "click"}},
		},
		{
			ID:      "link",
			Title:   "Link",
			Icon:    "link",
			TagName: "a",
			Properties: []types.Property{
				{Name: "href", Label: "URL", Type: types.PropertyText, Bind: types.BindAttribute, Default: "#"},
				{Name: "target", Label: "Open in", Type: types.PropertySelect, Bind: types.BindAttribute,
					MenuData: menu("_self", "_blank")},
				{Name: "text", Label: "Text", Type: types.PropertyText, Bind: types.BindInnerText, Default: "Link"},
			},
		},
		{
			ID:         "image",
			Aliases:    []string{"img"},
			Title:      "Image",
			Icon:       "image",
			TagName:    "img",
			FitContent: true,
			Properties: []types.Property{
				{Name: "src", Label: "Source", InputType: types.InputImage, Bind: types.BindAttribute},
				{Name: "alt", Label: "Alt text", Type: types.PropertyText, Bind: types.BindAttribute},
			},
		},
		{
			ID:         "input",
			Title:      "Input",
			Icon:       "input",
			TagName:    "input",
			WrapperTag: "label",
			CSS:        []string{"input"},
			Properties: []types.Property{
				{Label: "Field", Type: types.PropertyGroup, Children: []types.Property{
					{Name: "type", Label: "Type", Type: types.PropertySelect, Bind: types.BindAttribute,
						Default: "text", MenuData: menu("text", "email", "number", "password")},
					{Name: "placeholder", Label: "Placeholder", Type: types.PropertyText, Bind: types.BindAttribute},
					{Name: "required", Label: "Required", Type: types.PropertyBoolean, Bind: types.BindAttribute},
				}},
			},
			Outputs: []types.Output{
				{Binding: "value", EventName: "input", EventKeyPath: "target.value", WritesValue: true},
			},
		},
		{
			ID:      "portal",
			Title:   "Portal",
			Icon:    "input_circle",
			TagName: "div",
			CSS:     []string{"portal"},
			Properties: []types.Property{
				{Name: "content", Label: "Content", InputType: types.InputPortalSlot, Bind: types.BindNone},
			},
		},
		{
			ID:      "tabs",
			Title:   "Tabs",
			Icon:    "tab",
			TagName: "forge-tabs",
			Properties: []types.Property{
				{
					Name:                    "tabs",
					Label:                   "Tabs",
					InputType:               types.InputDynamicList,
					SupportsUniqueSelection: true,
					Schema: []types.Property{
						{Name: "title", Label: "Title", InputType: types.InputString},
						{Name: "body", Label: "Body", InputType: types.InputPortalSlot},
					},
				},
			},
		},
		{
			ID:                 "chart",
			Title:              "Chart",
			Icon:               "bar_chart",
			TagName:            "forge-chart",
			ExportPropsAsAttrs: true,
			Properties: []types.Property{
				{Name: "data", Label: "Dataset", InputType: types.InputDatasetSelect},
				{Name: "kind", Label: "Kind", Type: types.PropertySelect, Default: "bar", MenuData: menu("bar", "line", "pie")},
				{Name: "accent", Label: "Accent", Type: types.PropertyColor, Bind: types.BindCSSVar},
			},
		},
		{
			ID:      "list",
			Title:   "List",
			Icon:    "list",
			TagName: "ul",
			Properties: []types.Property{
				{Name: "items", Label: "Items", InputType: types.InputList, Bind: types.BindNone},
			},
			Children: []types.Child{types.TemplateChild(listItems)},
		},
		{
			ID:         "legacy-icon",
			Title:      "Icon (legacy)",
			TagName:    "i",
			Deprecated: true,
			CSS:        []string{"material-icons"},
			Properties: []types.Property{
				{Name: "name", Label: "Icon", Type: types.PropertyText, Bind: types.BindInnerText, Default: "star"},
			},
		},
	}

	for _, def := range defs {
		def.Library = Name
	}
	return defs
}

// Register registers every built-in definition. It panics when a built-in
// is already registered and returns the schema errors of any built-in that
// fails validation.
func Register(reg *registry.Registry) error {
	var all validation.Errors
	for _, def := range Definitions() {
		all = append(all, reg.Register(def)...)
	}
	if len(all) > 0 {
		return fmt.Errorf("registering built-in library: %w", all)
	}
	return nil
}

// listItems renders one item per entry of the items input: a loop in live
// mode, the literal entries otherwise.
func listItems(mode types.BuildMode, data *types.InstanceData, _ string) string {
	if mode == types.Internal {
		return factory.New(mode, "li", nil).
			AddFor("let item of " + factory.InputExpr("items")).
			AddInnerText("item", nil).
			Build()
	}

	raw, _ := data.Input("items")
	items, _ := raw.([]interface{})

	var b strings.Builder
	for _, item := range items {
		b.WriteString(factory.New(mode, "li", nil).AddInnerText("", item).Build())
	}
	return b.String()
}
