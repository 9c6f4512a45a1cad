package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentYAML = `
roots: [page]
elements:
  page:
    type: board
    childIds: [title]
    frame: {x: 0, y: 0, width: 800, height: 600}
  title:
    type: text
    inputs:
      text: Welcome
    styles:
      color: red
assets:
  logo: https://cdn.example.com/logo.png
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(documentYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"page"}, doc.Roots)
	require.Contains(t, doc.Elements, "title")
	assert.Equal(t, "title", doc.Elements["title"].ID, "ids default to the map key")
	assert.Equal(t, "Welcome", doc.Elements["title"].Inputs["text"])
	assert.Equal(t, 800.0, doc.Elements["page"].Frame.Width)

	ec := doc.Context()
	page, ok := ec.Element("page")
	require.True(t, ok)
	assert.Same(t, doc.Elements["page"], page)
	assert.Equal(t, "https://cdn.example.com/logo.png", ec.Assets["logo"])
}

func TestParseDocumentErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"mismatched id", "elements:\n  a:\n    id: b\n    type: text\n", `declares id "b"`},
		{"unknown root", "roots: [missing]\nelements: {}\n", `root "missing"`},
		{"empty element", "elements:\n  a:\n", `element "a" is empty`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.yaml", documentYAML)
	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Len(t, doc.Elements, 2)

	_, err = LoadDocument(writeFile(t, t.TempDir(), "bad.json", `{"roots": ["x"]}`))
	assert.Error(t, err)
}
