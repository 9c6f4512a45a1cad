package compiler

import (
	"fmt"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/types"
)

// selectedIndexInput is the companion input of uniquely selectable lists.
const selectedIndexInput = "selectedIndex"

// addBindings emits the binding of every remaining property.
func addBindings(f *factory.Factory, p pass) {
	for _, prop := range p.flat {
		if prop.Variant != "" && prop.Variant != p.variant {
			continue
		}
		if prop.InputType == types.InputPortalSlot {
			continue
		}
		if !prop.IsBound() || prop.Bind == types.BindVariant {
			continue
		}
		if prop.Name == "" {
			panic(ferrors.NewContractError(ferrors.CodeMissingName,
				fmt.Sprintf("property %q with binding %q has no name", prop.Label, bindName(prop.Bind))).
				WithComponent(p.def.ID))
		}

		if p.mode == types.Internal {
			bindLive(f, prop)
		} else {
			bindExport(f, p, prop)
		}

		if prop.SupportsUniqueSelection &&
			(prop.InputType == types.InputList || prop.InputType == types.InputDynamicList) {
			bindSelectedIndex(f, p)
		}
	}
}

func bindLive(f *factory.Factory, prop types.Property) {
	expr := factory.InputExpr(prop.Name)

	switch prop.Bind {
	case types.BindAttribute:
		f.AddAttrBinding(prop.Name, expr)
	case types.BindInnerText:
		f.AddInnerText(expr, nil)
	case types.BindInnerHTML:
		f.AddInnerHTML(expr, nil)
	case types.BindTagName:
		f.SetTagSwitch(expr, menuValues(prop.MenuData))
	case types.BindCSSVar:
		f.AddBoundAttribute("style.--"+prop.Name, expr)
	default:
		if prop.InputType == types.InputDatasetSelect {
			expr = fmt.Sprintf("%s | %s: %s", expr, factory.PipeDataset, factory.DatasetsVar)
		}
		f.AddBoundAttribute(prop.Name, expr)
	}
}

func bindExport(f *factory.Factory, p pass, prop types.Property) {
	value := valueOf(p, prop.Name, prop.Default)

	switch prop.Bind {
	case types.BindAttribute:
		addExportAttribute(f, prop.Name, value)
	case types.BindInnerText:
		f.AddInnerText("", value)
	case types.BindInnerHTML:
		f.AddInnerHTML("", value)
	case types.BindTagName:
		f.SetTagName(exportTagName(prop, value))
	case types.BindCSSVar:
		// CSS variables have no export representation.
	default:
		if p.def.ExportPropsAsAttrs {
			addExportAttribute(f, prop.Name, value)
		}
	}
}

// addExportAttribute renders a static attribute. false, null and missing
// values are omitted and true renders a valueless attribute.
func addExportAttribute(f *factory.Factory, name string, value interface{}) {
	if !types.IsMeaningful(value) {
		return
	}
	if b, ok := value.(bool); ok && b {
		f.AddBooleanAttribute(name, true)
		return
	}
	f.AddAttribute(name, types.Stringify(value))
}

// exportTagName resolves the tag from instance data, or the first menu entry
// when the instance value is not a candidate.
func exportTagName(prop types.Property, value interface{}) string {
	candidates := menuValues(prop.MenuData)
	if len(candidates) == 0 {
		panic(ferrors.NewContractError(ferrors.CodeNoTagName,
			fmt.Sprintf("tag name property %q has no menuData", prop.Name)))
	}
	selected := types.Stringify(value)
	for _, c := range candidates {
		if c == selected {
			return c
		}
	}
	return candidates[0]
}

func bindSelectedIndex(f *factory.Factory, p pass) {
	if p.mode == types.Internal {
		f.AddBoundAttribute(selectedIndexInput, factory.InputExpr(selectedIndexInput))
		return
	}
	if v, ok := p.data.Input(selectedIndexInput); ok && v != nil {
		f.AddAttribute(selectedIndexInput, types.Stringify(v))
	}
}

func menuValues(items []types.MenuItem) []string {
	values := make([]string, len(items))
	for i, item := range items {
		values[i] = item.Value
	}
	return values
}

func bindName(b types.BindingKind) string {
	if b == types.BindProperty {
		return "property"
	}
	return string(b)
}
