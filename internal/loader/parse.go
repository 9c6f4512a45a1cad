package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/forge/internal/types"
)

// ParseDefinitions decodes definitions from YAML or JSON. The input may hold
// one definition, a list of definitions, or a stream of YAML documents of
// either shape.
func ParseDefinitions(data []byte) ([]*types.Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var defs []*types.Definition
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		parsed, err := decodeDefinitions(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		defs = append(defs, parsed...)
	}

	return defs, nil
}

func decodeDefinitions(doc *yaml.Node) ([]*types.Definition, error) {
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.MappingNode:
		var def types.Definition
		if err := node.Decode(&def); err != nil {
			return nil, err
		}
		return []*types.Definition{&def}, nil
	case yaml.SequenceNode:
		var defs []*types.Definition
		if err := node.Decode(&defs); err != nil {
			return nil, err
		}
		return defs, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("line %d: expected a definition or a list of definitions", node.Line)
}
