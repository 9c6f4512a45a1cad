package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
)

// Document is a saved element tree: the root element ids, every element
// keyed by id, and the asset map.
type Document struct {
	Roots    []string                       `yaml:"roots" json:"roots"`
	Elements map[string]*types.InstanceData `yaml:"elements" json:"elements"`
	Assets   map[string]string              `yaml:"assets,omitempty" json:"assets,omitempty"`
}

// ParseDocument decodes a document from YAML or JSON. Elements without an
// id take their map key.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	for id, el := range doc.Elements {
		if el == nil {
			return nil, fmt.Errorf("element %q is empty", id)
		}
		if el.ID == "" {
			el.ID = id
		}
		if el.ID != id {
			return nil, fmt.Errorf("element %q declares id %q", id, el.ID)
		}
	}

	for _, root := range doc.Roots {
		if _, ok := doc.Elements[root]; !ok {
			return nil, fmt.Errorf("root %q is not an element", root)
		}
	}

	return &doc, nil
}

// LoadDocument reads and parses a document file.
func LoadDocument(path string) (*Document, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "invalid document path", err).WithFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "reading document", err).WithFile(path)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrorTypeSchema, ferrors.CodeInvalidDefinition, "parsing document").WithFile(path)
	}
	return doc, nil
}

// Context returns the export context of the document.
func (d *Document) Context() manager.ExportContext {
	return manager.ExportContext{Elements: d.Elements, Assets: d.Assets}
}
