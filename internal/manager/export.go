package manager

import (
	"context"
	"strings"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/types"
)

// ExportContext is the element tree an export reads from. It is passed
// through the whole recursive export and never modified.
type ExportContext struct {
	// Elements maps element ids to their instance data.
	Elements map[string]*types.InstanceData `json:"elements" yaml:"elements"`
	// Assets maps asset ids to URLs substituted for image inputs.
	Assets map[string]string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// Element returns the instance data of id.
func (ec ExportContext) Element(id string) (*types.InstanceData, bool) {
	el, ok := ec.Elements[id]
	return el, ok && el != nil
}

// Export renders the subtrees rooted at rootIDs in mode and concatenates
// them. Each element's children are rendered first and passed to its
// template as content. Elements that are missing, of an unknown type, or
// part of a reference cycle are logged and render nothing.
func (m *Manager) Export(ec ExportContext, rootIDs []string, mode types.BuildMode) string {
	return m.export(ec, rootIDs, mode, map[string]bool{})
}

func (m *Manager) export(ec ExportContext, ids []string, mode types.BuildMode, path map[string]bool) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(m.exportOne(ec, id, mode, path))
	}
	return b.String()
}

func (m *Manager) exportOne(ec ExportContext, id string, mode types.BuildMode, path map[string]bool) string {
	ctx := context.Background()

	el, ok := ec.Element(id)
	if !ok {
		m.logger.Warn(ctx, ferrors.NewReferenceError(ferrors.CodeUnknownComponent, "element not found"),
			"Skipping missing element", "element_id", id)
		return ""
	}
	if path[id] {
		m.logger.Warn(ctx, nil, "Skipping element that contains itself", "element_id", id)
		return ""
	}

	entry, ok := m.registry.Lookup(el.Type)
	if !ok {
		m.logger.Warn(ctx, ferrors.NewReferenceError(ferrors.CodeUnknownComponent, "element type not registered").
			WithComponent(el.Type), "Skipping element of unknown type", "element_id", id)
		return ""
	}

	path[id] = true
	content := m.export(ec, el.ChildIDs, mode, path)
	delete(path, id)

	data := resolveAssets(entry.Definition, el, ec.Assets)
	return entry.Template(mode, data, content)
}

// resolveAssets substitutes asset URLs for image inputs naming an asset id.
// The element is copied before any substitution.
func resolveAssets(def *types.Definition, el *types.InstanceData, assets map[string]string) *types.InstanceData {
	if len(assets) == 0 {
		return el
	}

	var resolved *types.InstanceData
	for _, p := range def.FlatProperties() {
		if p.InputType != types.InputImage || p.Name == "" {
			continue
		}
		raw, ok := el.Input(p.Name)
		if !ok {
			continue
		}
		assetID, ok := raw.(string)
		if !ok {
			continue
		}
		url, ok := assets[assetID]
		if !ok {
			continue
		}
		if resolved == nil {
			resolved = el.Clone()
		}
		resolved.Inputs[p.Name] = url
	}

	if resolved == nil {
		return el
	}
	return resolved
}
