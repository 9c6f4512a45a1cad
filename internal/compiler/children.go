package compiler

import (
	"fmt"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/types"
)

// addChildren renders each declared child into the factory's body.
func addChildren(f *factory.Factory, p pass) {
	data := childData(p.data)
	for i, child := range p.def.Children {
		switch {
		case child.Definition != nil:
			inner := *child.Definition
			inner.InnerChild = true
			inner.ExportPropsAsAttrs = p.def.ExportPropsAsAttrs
			f.AddChild(TemplateFor(&inner)(p.mode, data, ""))
		case child.Template != nil:
			f.AddChild(child.Template(p.mode, data, ""))
		case child.Markup != "":
			f.AddChild(child.Markup)
		default:
			panic(ferrors.NewContractError(ferrors.CodeInvalidChild,
				fmt.Sprintf("children[%d] is neither markup, a definition nor a template function", i)).
				WithComponent(p.def.ID))
		}
	}
}

// childData is the instance data seen by nested children. Inputs flow
// through; the id, raw attributes and accessibility inputs belong to the
// element's own tag only.
func childData(data *types.InstanceData) *types.InstanceData {
	if data == nil {
		return nil
	}
	return &types.InstanceData{
		Type:              data.Type,
		Inputs:            data.Inputs,
		ShowPreviewStyles: data.ShowPreviewStyles,
	}
}
