package manager

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/forge/internal/types"
)

// BoardType is the element type whose frame size becomes its style.
const BoardType = "board"

// Rule is one generated style rule.
type Rule struct {
	ClassName string
	Property  string
	Value     string
}

// String renders the rule as CSS.
func (r Rule) String() string {
	return fmt.Sprintf(".%s { %s: %s; }", r.ClassName, r.Property, r.Value)
}

// Styles returns one rule per style property per reachable element, in
// tree order. Board elements adopt their frame's width and height.
func (m *Manager) Styles(ec ExportContext, rootIDs []string) []Rule {
	var rules []Rule
	seen := map[string]bool{}

	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			el, ok := ec.Element(id)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true

			className := types.ElementClassName(id)
			decls := m.declarations(el)
			props := make([]string, 0, len(decls))
			for prop := range decls {
				props = append(props, prop)
			}
			sort.Strings(props)
			for _, prop := range props {
				rules = append(rules, Rule{ClassName: className, Property: prop, Value: decls[prop]})
			}

			walk(el.ChildIDs)
		}
	}
	walk(rootIDs)

	return rules
}

// declarations returns the sanitized style declarations of one element.
func (m *Manager) declarations(el *types.InstanceData) map[string]string {
	decls := make(map[string]string, len(el.Styles)+2)
	for prop, value := range el.Styles {
		if validDeclaration(prop, value) {
			decls[prop] = value
		}
	}

	if canonical, ok := m.registry.ResolveAlias(el.Type); ok && canonical == BoardType && el.Frame != nil {
		decls["width"] = types.Stringify(el.Frame.Width) + "px"
		decls["height"] = types.Stringify(el.Frame.Height) + "px"
	}

	return decls
}

// validDeclaration rejects properties and values that could escape a rule.
func validDeclaration(prop, value string) bool {
	if prop == "" || value == "" {
		return false
	}
	for _, r := range prop {
		if !(r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return !strings.ContainsAny(value, ";{}<>")
}

// Stylesheet renders the style rules of the subtrees as CSS text.
func (m *Manager) Stylesheet(ec ExportContext, rootIDs []string) string {
	rules := m.Styles(ec, rootIDs)
	lines := make([]string, len(rules))
	for i, r := range rules {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// Document returns the application export of the subtrees as a component:
// the font link, the generated stylesheet, then the markup.
func (m *Manager) Document(ec ExportContext, rootIDs []string) templ.Component {
	markup := m.Export(ec, rootIDs, types.Application)
	css := m.Stylesheet(ec, rootIDs)
	fontURL := m.fontURL

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if fontURL != "" {
			if _, err := io.WriteString(w, `<link rel="stylesheet" href="`+templ.EscapeString(fontURL)+`">`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "<style>\n"+css+"\n</style>"); err != nil {
			return err
		}
		_, err := io.WriteString(w, markup)
		return err
	})
}

// ExportApplication renders Document to a string.
func (m *Manager) ExportApplication(ctx context.Context, ec ExportContext, rootIDs []string) (string, error) {
	var b strings.Builder
	if err := m.Document(ec, rootIDs).Render(ctx, &b); err != nil {
		return "", fmt.Errorf("rendering application export: %w", err)
	}
	return b.String(), nil
}
