package compiler

import (
	"fmt"

	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/types"
)

// addPortalSlots appends the portal blocks of every portal-slot property and
// of every dynamic list whose item schema declares portal slots.
// A slot restricted to another variant is left out.
func addPortalSlots(f *factory.Factory, p pass) {
	for _, prop := range p.flat {
		if prop.Name == "" {
			continue
		}
		if prop.Variant != "" && prop.Variant != p.variant {
			continue
		}
		switch {
		case prop.InputType == types.InputPortalSlot:
			f.AddChild(portalSlot(prop.Name))
		case prop.InputType == types.InputDynamicList:
			for _, slot := range types.PortalSlots(prop.Schema) {
				f.AddChild(listPortalSlot(prop.Name, slot))
			}
		}
	}
}

// portalGuard is true when ref names an existing element that is not one of
// the current element's ancestors.
func portalGuard(ref string) string {
	return fmt.Sprintf("%s && !(%s || []).includes(%s) && !!%s?.[%s]",
		ref, factory.AncestorsVar, ref, factory.ElementsVar, ref)
}

// portalSlot renders a guarded outlet plus the zero-state template shown
// when the guard fails.
func portalSlot(name string) string {
	ref := factory.InputExpr(name)
	zeroState := "zeroState_" + factory.Ident(name)

	outlet := factory.New(types.Internal, "div", nil).
		AddClass(ClassPortalOutlet).
		AddAttribute("data-slot", name).
		AddChild(factory.ChildDispatch("["+ref+"]", factory.AppendAncestor()))

	guarded := factory.New(types.Internal, factory.ContainerTag, nil).
		AddIf(portalGuard(ref) + "; else " + zeroState).
		AddChild(outlet.Build())

	zero := factory.New(types.Internal, factory.TemplateTag, nil).
		AddBooleanAttribute("#"+zeroState, true).
		AddChild(factory.New(types.Internal, "div", nil).
			AddClass(ClassPortalZeroState).
			AddAttribute("data-slot", name).
			Build())

	return guarded.Build() + zero.Build()
}

// listPortalSlot renders one guarded outlet per list item for a portal slot
// nested in a dynamic list schema. Outlets are keyed by list position.
func listPortalSlot(list, slot string) string {
	item := factory.Ident(list) + "Item"
	index := factory.Ident(list) + "Index"
	ref := fmt.Sprintf("%s?.%s", item, slot)

	outlet := factory.New(types.Internal, "div", nil).
		AddClass(ClassPortalOutlet).
		AddBoundAttribute("attr.data-slot", fmt.Sprintf("%s + %s", factory.Quote(list+"-"+slot+"-"), index)).
		AddChild(factory.ChildDispatch("["+ref+"]", factory.AppendAncestor()))

	guarded := factory.New(types.Internal, factory.ContainerTag, nil).
		AddIf(portalGuard(ref)).
		AddChild(outlet.Build())

	loop := factory.New(types.Internal, factory.ContainerTag, nil).
		AddFor(fmt.Sprintf("let %s of %s; let %s = index", item, factory.InputExpr(list), index)).
		AddChild(guarded.Build())

	return loop.Build()
}
