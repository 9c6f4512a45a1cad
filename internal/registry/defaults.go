package registry

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/forge/internal/types"
)

var titleCaser = cases.Title(language.English)

func label(name string) string {
	return titleCaser.String(name)
}

// defaultLeading returns the groups prepended to every definition.
func defaultLeading() []types.Property {
	return []types.Property{
		{Name: "opacity", Label: label("opacity"), Type: types.PropertyOpacity, InputType: types.InputNumber, Bind: types.BindNone, Default: float64(100)},
		{Name: "position", Label: label("position"), Type: types.PropertyPosition, Bind: types.BindNone},
		{Name: "size", Label: label("size"), Type: types.PropertySize, Bind: types.BindNone},
	}
}

func defaultAdvanced() types.Property {
	return types.Property{
		Label: label("advanced"),
		Type:  types.PropertyAdvanced,
		Children: []types.Property{
			{Name: "tooltip", Label: label("tooltip"), Type: types.PropertyTooltip, InputType: types.InputString, Bind: types.BindNone},
			{
				Name:      "tooltipPosition",
				Label:     label("tooltip position"),
				Type:      types.PropertySelect,
				InputType: types.InputString,
				Bind:      types.BindNone,
				Default:   "bottom",
				MenuData: []types.MenuItem{
					{Title: label("top"), Value: "top"},
					{Title: label("bottom"), Value: "bottom"},
					{Title: label("left"), Value: "left"},
					{Title: label("right"), Value: "right"},
				},
			},
		},
	}
}

func defaultHidden() types.Property {
	return types.Property{Name: "hidden", Label: label("hidden"), Type: types.PropertyHidden, InputType: types.InputBoolean, Bind: types.BindNone, Default: false}
}

// InjectDefaultProperties prepends the opacity, position and size groups
// and appends the advanced and hidden groups. Each is skipped when the
// definition already declares a property of that kind, and all are skipped
// when the definition opts out.
func InjectDefaultProperties(def *types.Definition) {
	if !def.AddsDefaultProperties() {
		return
	}

	var leading []types.Property
	for _, p := range defaultLeading() {
		if !types.HasPropertyType(def.Properties, p.Type) {
			leading = append(leading, p)
		}
	}

	props := make([]types.Property, 0, len(leading)+len(def.Properties)+2)
	props = append(props, leading...)
	props = append(props, def.Properties...)

	if !types.HasPropertyType(def.Properties, types.PropertyAdvanced) {
		props = append(props, defaultAdvanced())
	}
	if !types.HasPropertyType(def.Properties, types.PropertyHidden) {
		props = append(props, defaultHidden())
	}

	def.Properties = props
}
