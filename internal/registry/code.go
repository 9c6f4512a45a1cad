package registry

import (
	"context"
	"fmt"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
)

// RegisterCodeComponent registers a user-authored definition, replacing any
// code component with the same id. Properties without a name are dropped,
// eligible properties become data-bindable, a supplied frame seeds the
// initial size, and the tag name is scoped to the id while the authored tag
// name is kept for export.
//
// Unlike Register, contract violations are returned as an error rather than
// raised, since code components are runtime input.
func (r *Registry) RegisterCodeComponent(def *types.Definition) (errs []validation.ValidationError, err error) {
	if def == nil || def.ID == "" {
		return nil, ferrors.NewSchemaError(ferrors.CodeInvalidDefinition, "code component requires an id")
	}

	prepared := prepareCodeComponent(def)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.components[prepared.ID]; ok && !existing.Definition.CodeComponent {
		return nil, ferrors.NewContractError(ferrors.CodeDuplicateBuiltin,
			fmt.Sprintf("code component %q collides with a built-in component", prepared.ID)).
			WithComponent(prepared.ID)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("registering code component %s: %w", prepared.ID, ferrors.FromPanic(rec))
			r.logger.Error(context.Background(), err, "Code component rejected", "id", prepared.ID)
		}
	}()

	if existing, ok := r.components[prepared.ID]; ok {
		r.removeLocked(existing)
		r.invalidateLocked()
		r.notifyLocked(types.EventTypeRemoved, prepared.ID, existing.Definition)
	}

	return r.register(prepared), nil
}

// UnregisterCodeComponent removes a code component. Built-in definitions
// are never removed. It reports whether an entry was removed.
func (r *Registry) UnregisterCodeComponent(id string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.components[id]
	if !ok || !existing.Definition.CodeComponent {
		return false
	}

	r.removeLocked(existing)
	r.invalidateLocked()
	r.notifyLocked(types.EventTypeRemoved, id, existing.Definition)
	return true
}

func prepareCodeComponent(def *types.Definition) *types.Definition {
	c := def.Clone()
	c.CodeComponent = true
	c.Properties = markDataBindable(namedProperties(c.Properties))

	if c.Frame != nil && !types.HasPropertyType(c.Properties, types.PropertySize) {
		size := types.Property{
			Name:  "size",
			Label: label("size"),
			Type:  types.PropertySize,
			Bind:  types.BindNone,
			Default: map[string]interface{}{
				"width":  c.Frame.Width,
				"height": c.Frame.Height,
			},
		}
		c.Properties = append([]types.Property{size}, c.Properties...)
	}

	if c.ExportTagName == "" {
		c.ExportTagName = c.TagName
	}
	c.TagName = types.ScopedTagName(c.ID)

	return c
}

// namedProperties drops leaves without a name and groups left empty.
func namedProperties(props []types.Property) []types.Property {
	out := make([]types.Property, 0, len(props))
	for _, p := range props {
		if p.IsGroup() {
			p.Children = namedProperties(p.Children)
			if len(p.Children) > 0 {
				out = append(out, p)
			}
			continue
		}
		if p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}

// markDataBindable flags scalar, bound properties as data-bindable.
func markDataBindable(props []types.Property) []types.Property {
	for i := range props {
		p := &props[i]
		if p.IsGroup() {
			p.Children = markDataBindable(p.Children)
			continue
		}
		if !p.IsBound() || p.Bind == types.BindTagName || p.Bind == types.BindVariant {
			continue
		}
		switch p.InputType {
		case "", types.InputString, types.InputNumber, types.InputBoolean:
			p.DataBindable = true
		}
	}
	return props
}
