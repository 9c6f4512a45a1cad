// Package manager assembles whole catalogs and exports element subtrees.
//
// The catalog is the live template set consumed by the editor renderer: one
// named block per element type plus a generic child-dispatch block. Export
// walks an element tree held in an ExportContext and concatenates the static
// markup of every reachable element, children first.
package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/forge/internal/factory"
	"github.com/conneroisu/forge/internal/logging"
	"github.com/conneroisu/forge/internal/registry"
	"github.com/conneroisu/forge/internal/types"
)

// DefaultFontURL is the stylesheet linked by application exports.
const DefaultFontURL = "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap"

// Manager builds catalogs and exports from one registry.
type Manager struct {
	registry *registry.Registry
	logger   logging.Logger
	fontURL  string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for unresolvable elements.
func WithLogger(logger logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFontURL overrides the font stylesheet of application exports. An
// empty URL disables the font link.
func WithFontURL(url string) Option {
	return func(m *Manager) {
		m.fontURL = url
	}
}

// New creates a manager over reg.
func New(reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		registry: reg,
		logger:   logging.Discard(),
		fontURL:  DefaultFontURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("manager")
	return m
}

// TemplateRef returns the name of the catalog block rendering type id.
func TemplateRef(id string) string {
	return "tpl_" + factory.Ident(id)
}

// Catalog returns the live template of every registered type followed by
// the child-dispatch block. Definitions that share another definition's
// template get no block of their own.
func (m *Manager) Catalog() string {
	defs := m.registry.GetComponents("", false)

	present := make(map[string]bool, len(defs))
	for _, def := range defs {
		present[def.ID] = true
	}

	var b strings.Builder
	cases := make([]factory.SwitchCase, 0, len(defs))

	for _, def := range defs {
		ref := TemplateRef(def.ID)
		shared := def.SharedTemplate != "" && def.SharedTemplate != def.ID && present[def.SharedTemplate]
		if shared {
			ref = TemplateRef(def.SharedTemplate)
		} else {
			if def.SharedTemplate != "" && def.SharedTemplate != def.ID {
				m.logger.Warn(context.Background(), nil, "Shared template target is not registered",
					"id", def.ID, "shared_template", def.SharedTemplate)
			}
			entry := m.registry.Entry(def.ID)
			if entry == nil {
				continue
			}
			b.WriteString(block(ref, entry.Template(types.Internal, nil, "")))
		}

		for _, key := range append([]string{def.ID}, def.Aliases...) {
			cases = append(cases, factory.SwitchCase{Value: key, Markup: dispatchOutlet(ref)})
		}
	}

	b.WriteString(dispatchBlock(cases))
	return b.String()
}

// block wraps a type's live markup in a named template guarded by the
// presence of the element in the live element map.
func block(ref, markup string) string {
	return fmt.Sprintf(`<%s #%s let-%s="%s" let-%s="%s"><%s %s="%s?.[%s?.id]">%s</%s></%s>`,
		factory.TemplateTag, ref,
		factory.PropsVar, factory.PropsVar,
		factory.AncestorsVar, factory.AncestorsVar,
		factory.ContainerTag, factory.DirectiveIf, factory.ElementsVar, factory.PropsVar,
		markup,
		factory.ContainerTag, factory.TemplateTag)
}

func dispatchOutlet(ref string) string {
	return fmt.Sprintf(`<%s %s="%s; context: { %s: %s?.[childId], %s: %s }"></%s>`,
		factory.ContainerTag, factory.DirectiveOutlet, ref,
		factory.PropsVar, factory.ElementsVar,
		factory.AncestorsVar, factory.AncestorsVar,
		factory.ContainerTag)
}

// dispatchBlock iterates the child ids passed as the implicit context value
// and renders each through the block matching its runtime type.
func dispatchBlock(cases []factory.SwitchCase) string {
	sw := factory.BuildSwitch(factory.ElementsVar+"?.[childId]?.type", cases)
	return fmt.Sprintf(`<%s #%s let-childIds let-%s="%s"><%s %s="let childId of childIds">%s</%s></%s>`,
		factory.TemplateTag, factory.ChildDispatchRef,
		factory.AncestorsVar, factory.AncestorsVar,
		factory.ContainerTag, factory.DirectiveFor,
		sw,
		factory.ContainerTag, factory.TemplateTag)
}
