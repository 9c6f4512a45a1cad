package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/forge/internal/types"
)

func variantDef() *types.Definition {
	return &types.Definition{
		ID:    "tag",
		Title: "Tag",
		Properties: []types.Property{{
			Name: "type",
			Bind: types.BindVariant,
			MenuData: []types.MenuItem{
				{Title: "Foo", Value: "foo"},
				{Title: "Bar", Value: "bar"},
			},
		}},
		Variants: types.Variants{
			{Name: "foo", TagName: "foo"},
			{Name: "bar", TagName: "bar"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(&types.Definition{ID: "div", Title: "Div", TagName: "div"}))
	assert.Empty(t, Validate(variantDef()))
}

func TestValidate_Nil(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, TypeDefinition, errs[0].Type)
}

func TestValidate_MissingTagName(t *testing.T) {
	errs := Validate(&types.Definition{ID: "x", Title: "X"})
	require.Len(t, errs, 1)
	assert.Equal(t, "tagName", errs[0].Name)
	assert.Equal(t, TypeDefinition, errs[0].Type)
}

func TestValidate_TagNameSources(t *testing.T) {
	t.Run("every variant supplies one", func(t *testing.T) {
		assert.Empty(t, Validate(variantDef()))
	})

	t.Run("one variant lacks a tag", func(t *testing.T) {
		def := variantDef()
		def.Variants[1].TagName = ""
		errs := Validate(def)
		require.Len(t, errs, 1)
		assert.Equal(t, "tagName", errs[0].Name)
	})

	t.Run("tag binding property", func(t *testing.T) {
		def := &types.Definition{
			ID: "heading", Title: "Heading",
			Properties: []types.Property{{
				Name: "level", Bind: types.BindTagName,
				MenuData: []types.MenuItem{{Title: "H1", Value: "h1"}},
			}},
		}
		assert.Empty(t, Validate(def))
	})
}

func TestValidate_MissingVariantKey(t *testing.T) {
	def := variantDef()
	def.Properties[0].MenuData = def.Properties[0].MenuData[:1]

	errs := Validate(def)
	require.Len(t, errs, 1)
	assert.Equal(t, "type", errs[0].Name)
	assert.Contains(t, errs[0].Message, "menuData")
	assert.Contains(t, errs[0].Message, `"bar"`)
}

func TestValidate_VariantsWithoutBinding(t *testing.T) {
	def := variantDef()
	def.Properties[0].Bind = types.BindNone

	errs := Validate(def)
	require.Len(t, errs, 1)
	assert.Equal(t, "variants", errs[0].Name)
}

func TestValidate_VariantPropertyWithoutName(t *testing.T) {
	def := variantDef()
	def.Properties[0].Name = ""

	errs := Validate(def)
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Name
	}
	assert.Contains(t, names, "variants")
	assert.Contains(t, names, "properties[0]")
}

func TestValidate_PropertyChecks(t *testing.T) {
	def := &types.Definition{
		ID: "x", Title: "X", TagName: "div",
		Properties: []types.Property{
			{Label: "Unnamed", Bind: types.BindAttribute},
			{Label: "Decoration", Bind: types.BindNone},
			{Name: "level", Bind: types.BindTagName},
			{Name: "choice", Bind: types.BindNone, MenuData: []types.MenuItem{}},
		},
		Outputs: []types.Output{{Binding: "click"}, {EventName: "input"}},
	}

	errs := Validate(def)
	require.Len(t, errs, 4)

	assert.Equal(t, ValidationError{Type: TypeProperty, Name: "properties[0]", Message: "bound property requires a name"}, errs[0])
	assert.Equal(t, "level", errs[1].Name)
	assert.Contains(t, errs[1].Message, "non-empty menuData")
	assert.Equal(t, "choice", errs[2].Name)
	assert.Equal(t, "menuData must not be empty", errs[2].Message)
	assert.Equal(t, ValidationError{Type: TypeOutput, Name: "outputs[1]", Message: "output requires a binding"}, errs[3])
}

func TestValidate_ReportsEverything(t *testing.T) {
	def := &types.Definition{
		Properties: []types.Property{{Bind: types.BindInnerText}},
		Outputs:    []types.Output{{}},
	}

	errs := Validate(def)
	require.Len(t, errs, 4)
	assert.Equal(t, "title", errs[0].Name)
	assert.Equal(t, "tagName", errs[1].Name)
	assert.Equal(t, TypeProperty, errs[2].Type)
	assert.Equal(t, TypeOutput, errs[3].Type)
}

func TestErrorsError(t *testing.T) {
	errs := Errors{
		{Type: TypeDefinition, Name: "title", Message: "title is required"},
		{Type: TypeOutput, Name: "outputs[0]", Message: "output requires a binding"},
	}
	assert.Equal(t, `definition "title": title is required; output "outputs[0]": output requires a binding`, errs.Error())
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"components/button.yaml", false},
		{"./library", false},
		{"", true},
		{"../secrets.yaml", true},
		{"lib/../../etc", true},
		{"/proc/self/environ", true},
		{"/etc/shadow", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsDefinitionFile(t *testing.T) {
	assert.True(t, IsDefinitionFile("a.yaml"))
	assert.True(t, IsDefinitionFile("a.YML"))
	assert.True(t, IsDefinitionFile("dir/a.json"))
	assert.False(t, IsDefinitionFile("a.templ"))
	assert.False(t, IsDefinitionFile("yaml"))
}

func TestValidateOrigin(t *testing.T) {
	allowed := []string{"localhost:8080", "https://forge.example.com"}

	assert.NoError(t, ValidateOrigin("http://localhost:8080", allowed))
	assert.NoError(t, ValidateOrigin("https://forge.example.com", allowed))
	assert.Error(t, ValidateOrigin("", allowed))
	assert.Error(t, ValidateOrigin("ftp://localhost:8080", allowed))
	assert.Error(t, ValidateOrigin("http://evil.example.com", allowed))
}
