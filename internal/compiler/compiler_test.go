package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/types"
)

const scaffold = `class="render-rect-marker rendered-element" ` +
	`[attr.data-id]="props?.id | attrValue" ` +
	`[attr.data-full-id-path]="ancestors | fullIdPath: props?.id | attrValue" ` +
	`[styleMap]="props?.styles" ` +
	`[classPrefix]="props?.id" ` +
	`[class.show-preview-styles]="props?.showPreviewStyles" ` +
	`[tooltip]="props?.inputs?.tooltip" ` +
	`[tooltipPosition]="props?.inputs?.tooltipPosition" ` +
	`[hiddenInput]="props?.inputs?.hidden" ` +
	`[elementAttrs]="props?.attrs" ` +
	`[a11yAttrs]="props?.a11yInputs"`

func inputs(kv ...interface{}) *types.InstanceData {
	data := &types.InstanceData{Inputs: map[string]interface{}{}}
	for i := 0; i+1 < len(kv); i += 2 {
		data.Inputs[kv[i].(string)] = kv[i+1]
	}
	return data
}

func variantDefinition() *types.Definition {
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

// expectContractPanic runs fn and returns the contract error it panicked with.
func expectContractPanic(t *testing.T, fn func()) *ferrors.Error {
	t.Helper()
	var got *ferrors.Error
	func() {
		defer func() {
			rec := recover()
			require.NotNil(t, rec, "expected a panic")
			err, ok := rec.(*ferrors.Error)
			require.True(t, ok, "panic value %T is not *errors.Error", rec)
			got = err
		}()
		fn()
	}()
	assert.Equal(t, ferrors.ErrorTypeContract, got.Type)
	return got
}

func TestCompile_DefaultScaffolding(t *testing.T) {
	def := &types.Definition{TagName: "div"}
	assert.Equal(t, `<div `+scaffold+`></div>`, Compile(def, types.Internal, nil, ""))
	assert.Equal(t, `<div></div>`, Compile(def, types.Simple, nil, ""))
}

func TestCompile_Variants(t *testing.T) {
	def := variantDefinition()

	assert.Equal(t, `<bar></bar>`, Compile(def, types.Simple, inputs("type", "bar"), ""))
	assert.Equal(t, `<foo></foo>`, Compile(def, types.Simple, inputs("type", "baz"), ""), "unmatched falls back to first")
	assert.Equal(t, `<foo></foo>`, Compile(def, types.Application, nil, ""), "unset falls back to first")

	live := Compile(def, types.Internal, inputs("type", "bar"), "")
	assert.Equal(t,
		`<ng-container [ngSwitch]="props?.inputs?.type">`+
			`<ng-container *ngSwitchCase="'foo'"><foo `+scaffold+`></foo></ng-container>`+
			`<ng-container *ngSwitchCase="'bar'"><bar `+scaffold+`></bar></ng-container>`+
			`</ng-container>`,
		live)
}

func TestCompile_VariantRestrictedProperty(t *testing.T) {
	def := variantDefinition()
	def.Properties = append(def.Properties, types.Property{Name: "href", Bind: types.BindAttribute, Variant: "bar"})

	assert.Equal(t, `<foo></foo>`, Compile(def, types.Simple, inputs("type", "foo", "href", "/x"), ""))
	assert.Equal(t, `<bar href="/x"></bar>`, Compile(def, types.Simple, inputs("type", "bar", "href", "/x"), ""))

	live := Compile(def, types.Internal, nil, "")
	assert.Equal(t, 1, strings.Count(live, `[attr.href]`))
	assert.Regexp(t, `<bar [^>]*\[attr\.href\]`, live)
}

func TestCompile_VariantRestrictedPortalSlot(t *testing.T) {
	def := variantDefinition()
	def.Properties = append(def.Properties, types.Property{
		Name: "content", InputType: types.InputPortalSlot, Bind: types.BindNone, Variant: "bar",
	})

	live := Compile(def, types.Internal, nil, "")
	assert.Equal(t, 1, strings.Count(live, "#zeroState_content"))

	bar := strings.Index(live, "<bar ")
	require.Positive(t, bar)
	assert.NotContains(t, live[:bar], "zeroState_content", "foo case has no slot")
	assert.Contains(t, live[bar:], "zeroState_content")
}

func TestCompile_VariantOverrides(t *testing.T) {
	def := variantDefinition()
	def.CSS = []string{"base"}
	def.Variants[1].CSS = []string{"bar-only"}
	def.Variants[1].Attrs = []types.Attr{{Key: "role", Value: "note"}}

	assert.Equal(t, `<foo class="base"></foo>`, Compile(def, types.Simple, inputs("type", "foo"), ""))
	assert.Equal(t, `<bar class="bar-only" role="note"></bar>`, Compile(def, types.Simple, inputs("type", "bar"), ""))
}

func TestCompile_Wrapper(t *testing.T) {
	def := &types.Definition{TagName: "input", WrapperTag: "label"}

	live := Compile(def, types.Internal, nil, "")
	assert.Equal(t, `<label `+scaffold+`><input></label>`, live)
	assert.Equal(t, 1, strings.Count(live, "<label"))
	assert.Equal(t, 1, strings.Count(live, "<input"))

	assert.Equal(t, `<input>`, Compile(def, types.Simple, nil, ""))
	assert.Equal(t, `<input>`, Compile(def, types.Application, nil, ""))
}

func TestCompile_AttributeExport(t *testing.T) {
	def := &types.Definition{
		TagName:    "button",
		Properties: []types.Property{{Name: "disabled", Bind: types.BindAttribute}},
	}

	tests := []struct {
		name string
		data *types.InstanceData
		want string
	}{
		{"false omitted", inputs("disabled", false), `<button></button>`},
		{"null omitted", inputs("disabled", nil), `<button></button>`},
		{"missing omitted", inputs(), `<button></button>`},
		{"true is bare", inputs("disabled", true), `<button disabled></button>`},
		{"string value", inputs("disabled", "disabled"), `<button disabled="disabled"></button>`},
		{"zero kept", inputs("disabled", 0), `<button disabled="0"></button>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(def, types.Simple, tt.data, ""))
		})
	}

	live := Compile(def, types.Internal, inputs("disabled", true), "")
	assert.Contains(t, live, `[attr.disabled]="props?.inputs?.disabled | attrValue"`)
}

func TestCompile_ExportFallsBackToDefault(t *testing.T) {
	def := &types.Definition{
		TagName: "a",
		Properties: []types.Property{
			{Name: "href", Bind: types.BindAttribute, Default: "#"},
			{Name: "text", Bind: types.BindInnerText, Default: "Link"},
		},
	}

	assert.Equal(t, `<a href="#">Link</a>`, Compile(def, types.Simple, nil, ""))
	assert.Equal(t, `<a href="/home">Home</a>`, Compile(def, types.Simple, inputs("href", "/home", "text", "Home"), ""))
}

func TestCompile_InnerTextAndHTML(t *testing.T) {
	text := &types.Definition{TagName: "p", InnerChild: true, Properties: []types.Property{{Name: "text", Bind: types.BindInnerText}}}
	assert.Equal(t, `<p>{{ props?.inputs?.text }}</p>`, Compile(text, types.Internal, inputs("text", "Hello"), ""))
	assert.Equal(t, `<p>Hello &amp; bye</p>`, Compile(text, types.Simple, inputs("text", "Hello & bye"), ""))
	assert.Equal(t, `<p></p>`, Compile(text, types.Simple, nil, ""))

	rich := &types.Definition{TagName: "div", InnerChild: true, Properties: []types.Property{{Name: "html", Bind: types.BindInnerHTML}}}
	assert.Equal(t, `<div [innerHTML]="props?.inputs?.html | safeHtml" [richText]="true"></div>`,
		Compile(rich, types.Internal, nil, ""))
	assert.Equal(t, `<div><em>x</em></div>`, Compile(rich, types.Simple, inputs("html", "<em>x</em>"), ""))
}

func TestCompile_TagNameBinding(t *testing.T) {
	def := &types.Definition{
		InnerChild: true,
		Properties: []types.Property{{
			Name: "level",
			Bind: types.BindTagName,
			MenuData: []types.MenuItem{
				{Title: "H1", Value: "h1"},
				{Title: "H2", Value: "h2"},
			},
		}},
	}

	assert.Equal(t, `<h2></h2>`, Compile(def, types.Simple, inputs("level", "h2"), ""))
	assert.Equal(t, `<h1></h1>`, Compile(def, types.Simple, inputs("level", "script"), ""))
	assert.Equal(t, `<h1></h1>`, Compile(def, types.Simple, nil, ""))

	assert.Equal(t,
		`<ng-container [ngSwitch]="props?.inputs?.level">`+
			`<ng-container *ngSwitchCase="'h1'"><h1></h1></ng-container>`+
			`<ng-container *ngSwitchCase="'h2'"><h2></h2></ng-container>`+
			`</ng-container>`,
		Compile(def, types.Internal, nil, ""))
}

// CSS variables have no export representation; the binding is dropped.
func TestCompile_CSSVarExportGap(t *testing.T) {
	def := &types.Definition{TagName: "div", InnerChild: true, Properties: []types.Property{{Name: "accent", Bind: types.BindCSSVar}}}

	assert.Equal(t, `<div [style.--accent]="props?.inputs?.accent"></div>`, Compile(def, types.Internal, nil, ""))
	assert.Equal(t, `<div></div>`, Compile(def, types.Simple, inputs("accent", "red"), ""))
}

func TestCompile_PropertyBinding(t *testing.T) {
	def := &types.Definition{
		TagName:    "x-chart",
		InnerChild: true,
		Properties: []types.Property{
			{Name: "series"},
			{Name: "source", InputType: types.InputDatasetSelect},
			{Name: "note", Bind: types.BindNone},
		},
	}

	assert.Equal(t,
		`<x-chart [series]="props?.inputs?.series" [source]="props?.inputs?.source | datasetValue: datasets"></x-chart>`,
		Compile(def, types.Internal, nil, ""))
	assert.Equal(t, `<x-chart></x-chart>`, Compile(def, types.Simple, inputs("series", "a", "note", "n"), ""))

	def.ExportPropsAsAttrs = true
	assert.Equal(t, `<x-chart series="a"></x-chart>`, Compile(def, types.Simple, inputs("series", "a", "note", "n"), ""))
}

func TestCompile_SelectedIndex(t *testing.T) {
	def := &types.Definition{
		TagName:    "x-tabs",
		InnerChild: true,
		Properties: []types.Property{{Name: "tabs", InputType: types.InputList, SupportsUniqueSelection: true}},
	}

	assert.Equal(t, `<x-tabs [tabs]="props?.inputs?.tabs" [selectedIndex]="props?.inputs?.selectedIndex"></x-tabs>`,
		Compile(def, types.Internal, nil, ""))
	assert.Equal(t, `<x-tabs selectedIndex="2"></x-tabs>`,
		Compile(def, types.Simple, inputs("tabs", []interface{}{"a"}, "selectedIndex", 2), ""))
}

func TestCompile_Outputs(t *testing.T) {
	def := &types.Definition{
		TagName:    "input",
		InnerChild: true,
		Outputs: []types.Output{
			{Binding: "clicked", EventName: "click"},
			{Binding: "value", EventName: "input", EventKeyPath: "target.value", WritesValue: true},
		},
	}

	assert.Equal(t,
		`<input (click)="onOutput($event, props, 'clicked', '', false)" `+
			`(input)="onOutput($event, props, 'value', 'target.value', true)">`,
		Compile(def, types.Internal, nil, ""))
	assert.Equal(t, `<input>`, Compile(def, types.Simple, nil, ""))
}

func TestCompile_ClassesAndAttributes(t *testing.T) {
	def := &types.Definition{
		TagName:       "button",
		InnerChild:    true,
		CSS:           []string{"btn"},
		ClassBindings: []types.ClassBinding{{ClassName: "active", Input: "isActive"}},
		Attrs:         []types.Attr{{Key: "type", Value: "button"}},
		A11yAttrs:     []types.Attr{{Key: "role", Value: "button"}},
	}

	assert.Equal(t, `<button class="btn" [class.active]="props?.inputs?.isActive" type="button" role="button"></button>`,
		Compile(def, types.Internal, nil, ""))

	data := inputs("isActive", true)
	data.A11yInputs = []types.Attr{{Key: "aria-label", Value: "Go"}}
	assert.Equal(t, `<button class="btn active" type="button" role="button" aria-label="Go"></button>`,
		Compile(def, types.Simple, data, ""))

	assert.Equal(t, `<button class="btn" type="button" role="button"></button>`,
		Compile(def, types.Simple, inputs("isActive", false), ""))
}

func TestCompile_ExportSeedsInstance(t *testing.T) {
	def := &types.Definition{TagName: "div"}
	data := &types.InstanceData{ID: "e1", Attrs: []types.Attr{{Key: "data-test", Value: "x"}}}

	assert.Equal(t, `<div class="el-e1" data-test="x"></div>`, Compile(def, types.Simple, data, ""))
	assert.Equal(t, `<div class="el-e1" data-test="x"></div>`, Compile(def, types.Application, data, ""))
	assert.NotContains(t, Compile(def, types.Internal, data, ""), "el-e1")
}

func TestCompile_LiveOnlyFeatures(t *testing.T) {
	def := &types.Definition{
		TagName:         "section",
		Directives:      []string{"[cdkDropList]"},
		ChildrenAllowed: true,
		FitContent:      true,
		BindIf:          "visible",
	}

	live := Compile(def, types.Internal, nil, "<p>ignored</p>")
	assert.Contains(t, live, "[cdkDropList]")
	assert.Contains(t, live, "renderChildren; context: { $implicit: props?.childIds")
	assert.Contains(t, live, `class="render-rect-marker rendered-element fit-content"`)
	assert.Contains(t, live, `*ngIf="props?.inputs?.visible"`)
	assert.NotContains(t, live, "ignored")

	assert.Equal(t, `<section><p>kept</p></section>`, Compile(def, types.Simple, nil, "<p>kept</p>"))
}

func TestCompile_BindIfOnWrapper(t *testing.T) {
	def := &types.Definition{TagName: "input", WrapperTag: "label", BindIf: "visible"}
	live := Compile(def, types.Internal, nil, "")
	assert.Regexp(t, `^<label [^>]*\*ngIf="props\?\.inputs\?\.visible"[^>]*><input></label>$`, live)
}

func TestCompile_ExportTagName(t *testing.T) {
	def := &types.Definition{TagName: "forge-cc-card", ExportTagName: "my-card"}
	assert.Equal(t, `<my-card></my-card>`, Compile(def, types.Simple, nil, ""))
	assert.True(t, strings.HasPrefix(Compile(def, types.Internal, nil, ""), "<forge-cc-card "))
}

func TestCompile_Children(t *testing.T) {
	def := &types.Definition{
		TagName: "ul",
		Children: []types.Child{
			types.TextChild("<li>static</li>"),
			types.DefinitionChild(&types.Definition{
				TagName:    "li",
				Properties: []types.Property{{Name: "label", Bind: types.BindInnerText}},
			}),
			types.TemplateChild(func(mode types.BuildMode, _ *types.InstanceData, _ string) string {
				return "<li>" + mode.String() + "</li>"
			}),
		},
	}

	live := Compile(def, types.Internal, nil, "")
	assert.Equal(t, `<ul `+scaffold+`><li>static</li><li>{{ props?.inputs?.label }}</li><li>internal</li></ul>`, live)
	assert.Equal(t, 1, strings.Count(live, "render-rect-marker"), "inner children skip scaffolding")

	assert.Equal(t, `<ul><li>static</li><li>Item</li><li>simple</li></ul>`,
		Compile(def, types.Simple, inputs("label", "Item"), ""))

	require.False(t, def.Children[1].Definition.InnerChild, "the child definition is not modified")
}

func TestCompile_ChildrenDoNotInheritInstanceSeeding(t *testing.T) {
	def := &types.Definition{
		TagName: "section",
		Children: []types.Child{
			types.DefinitionChild(&types.Definition{
				TagName:    "span",
				Properties: []types.Property{{Name: "label", Bind: types.BindInnerText}},
			}),
			types.TemplateChild(func(_ types.BuildMode, data *types.InstanceData, _ string) string {
				assert.Empty(t, data.ID)
				assert.Empty(t, data.Attrs)
				return "<i></i>"
			}),
		},
	}
	data := &types.InstanceData{
		ID:         "e1",
		Inputs:     map[string]interface{}{"label": "Hero"},
		Attrs:      []types.Attr{{Key: "id", Value: "hero"}},
		A11yInputs: []types.Attr{{Key: "aria-label", Value: "Banner"}},
	}

	for _, mode := range []types.BuildMode{types.Simple, types.Application} {
		out := Compile(def, mode, data, "")
		assert.Equal(t, `<section class="el-e1" id="hero" aria-label="Banner"><span>Hero</span><i></i></section>`, out, mode.String())
		assert.Equal(t, 1, strings.Count(out, `id="hero"`))
		assert.Equal(t, 1, strings.Count(out, "el-e1"))
	}
}

func TestCompile_ChildrenInheritExportPropsAsAttrs(t *testing.T) {
	def := &types.Definition{
		TagName:            "ul",
		ExportPropsAsAttrs: true,
		Children: []types.Child{types.DefinitionChild(&types.Definition{
			TagName:    "li",
			Properties: []types.Property{{Name: "value"}},
		})},
	}

	assert.Equal(t, `<ul><li value="3"></li></ul>`, Compile(def, types.Simple, inputs("value", 3), ""))
}

func TestCompile_PortalSlot(t *testing.T) {
	def := &types.Definition{
		TagName:    "div",
		InnerChild: true,
		Properties: []types.Property{{Name: "content", InputType: types.InputPortalSlot, Bind: types.BindNone}},
	}

	live := Compile(def, types.Internal, nil, "")

	guard := `props?.inputs?.content && !(ancestors || []).includes(props?.inputs?.content) && !!elements?.[props?.inputs?.content]`
	want := `<div>` +
		`<ng-container *ngIf="` + guard + `; else zeroState_content">` +
		`<div class="portal-outlet" data-slot="content">` +
		`<ng-container *ngTemplateOutlet="renderChildren; context: { $implicit: [props?.inputs?.content], ancestors: (ancestors || []).concat(props?.id) }"></ng-container>` +
		`</div></ng-container>` +
		`<ng-template #zeroState_content><div class="portal-zero-state" data-slot="content"></div></ng-template>` +
		`</div>`
	assert.Equal(t, want, live)
	assert.Equal(t, 1, strings.Count(live, "<ng-container *ngIf="))
	assert.Equal(t, 1, strings.Count(live, "<ng-template "))

	assert.Equal(t, `<div></div>`, Compile(def, types.Simple, inputs("content", "el2"), ""))
}

func TestCompile_DynamicListPortalSlots(t *testing.T) {
	def := &types.Definition{
		TagName:    "div",
		InnerChild: true,
		Properties: []types.Property{{
			Name:      "tabs",
			InputType: types.InputDynamicList,
			Bind:      types.BindNone,
			Schema: []types.Property{
				{Name: "title"},
				{Name: "body", InputType: types.InputPortalSlot},
			},
		}},
	}

	live := Compile(def, types.Internal, nil, "")
	assert.Equal(t, 1, strings.Count(live, `*ngFor="let tabsItem of props?.inputs?.tabs; let tabsIndex = index"`))
	assert.Contains(t, live, `*ngIf="tabsItem?.body && !(ancestors || []).includes(tabsItem?.body) && !!elements?.[tabsItem?.body]"`)
	assert.Contains(t, live, `[attr.data-slot]="'tabs-body-' + tabsIndex"`)
	assert.Contains(t, live, `$implicit: [tabsItem?.body]`)
	assert.NotContains(t, live, "zeroState")
}

func TestCompile_InternalNeverContainsInstanceValues(t *testing.T) {
	def := &types.Definition{
		TagName:       "a",
		ClassBindings: []types.ClassBinding{{ClassName: "on", Input: "flag"}},
		Properties: []types.Property{
			{Name: "href", Bind: types.BindAttribute},
			{Name: "label", Bind: types.BindInnerText},
			{Name: "tip"},
		},
	}
	data := &types.InstanceData{
		ID:         "secret-id",
		Inputs:     map[string]interface{}{"href": "/secret-href", "label": "secret-label", "tip": "secret-tip", "flag": true},
		Attrs:      []types.Attr{{Key: "data-secret", Value: "secret-attr"}},
		A11yInputs: []types.Attr{{Key: "aria-label", Value: "secret-aria"}},
	}

	live := Compile(def, types.Internal, data, "")
	assert.NotContains(t, live, "secret")

	def.ExportPropsAsAttrs = true
	export := Compile(def, types.Simple, data, "")
	for _, syntax := range []string{"[", "(", "{{", "*ng"} {
		assert.NotContains(t, export, syntax)
	}
	assert.Equal(t, `<a class="el-secret-id on" data-secret="secret-attr" aria-label="secret-aria" href="/secret-href" tip="secret-tip">secret-label</a>`, export)
}

func TestCompile_Idempotent(t *testing.T) {
	def := variantDefinition()
	def.WrapperTag = "span"
	def.Properties = append(def.Properties,
		types.Property{Name: "label", Bind: types.BindInnerText},
		types.Property{Name: "slot", InputType: types.InputPortalSlot},
	)
	fn := TemplateFor(def)
	data := inputs("type", "bar", "label", "x")

	for _, mode := range []types.BuildMode{types.Internal, types.Simple, types.Application} {
		assert.Equal(t, fn(mode, data, "c"), fn(mode, data, "c"), mode.String())
	}
}

func TestCompile_DoesNotMutateInputs(t *testing.T) {
	def := variantDefinition()
	data := inputs("type", "bar")
	before := def.Clone()

	_ = Compile(def, types.Internal, data, "")
	_ = Compile(def, types.Simple, data, "")

	assert.Equal(t, before, def)
	assert.Equal(t, map[string]interface{}{"type": "bar"}, data.Inputs)
}

func TestCompile_ContractViolations(t *testing.T) {
	t.Run("nil definition", func(t *testing.T) {
		err := expectContractPanic(t, func() { Compile(nil, types.Internal, nil, "") })
		assert.Equal(t, ferrors.CodeInvalidDefinition, err.Code)
	})

	t.Run("variants without binding", func(t *testing.T) {
		def := variantDefinition()
		def.Properties[0].Bind = types.BindNone
		err := expectContractPanic(t, func() { Compile(def, types.Simple, nil, "") })
		assert.Equal(t, ferrors.CodeMissingVariantKey, err.Code)
	})

	t.Run("variant property without name", func(t *testing.T) {
		def := variantDefinition()
		def.Properties[0].Name = ""
		err := expectContractPanic(t, func() { Compile(def, types.Internal, nil, "") })
		assert.Equal(t, ferrors.CodeMissingName, err.Code)
	})

	t.Run("variant binding without variants", func(t *testing.T) {
		def := variantDefinition()
		def.Variants = nil
		def.TagName = "div"
		err := expectContractPanic(t, func() { Compile(def, types.Internal, nil, "") })
		assert.Equal(t, ferrors.CodeMissingVariantKey, err.Code)
	})

	t.Run("bound property without name", func(t *testing.T) {
		def := &types.Definition{ID: "x", TagName: "div", Properties: []types.Property{{Label: "Title", Bind: types.BindAttribute}}}
		err := expectContractPanic(t, func() { Compile(def, types.Simple, nil, "") })
		assert.Equal(t, ferrors.CodeMissingName, err.Code)
		assert.Equal(t, "x", err.Component)
	})

	t.Run("invalid child", func(t *testing.T) {
		def := &types.Definition{TagName: "div", Children: []types.Child{{}}}
		err := expectContractPanic(t, func() { Compile(def, types.Internal, nil, "") })
		assert.Equal(t, ferrors.CodeInvalidChild, err.Code)
	})

	t.Run("no tag name", func(t *testing.T) {
		err := expectContractPanic(t, func() { Compile(&types.Definition{ID: "x"}, types.Simple, nil, "") })
		assert.Equal(t, ferrors.CodeNoTagName, err.Code)
	})
}

func TestInspect(t *testing.T) {
	def := variantDefinition()

	live := Inspect(def, types.Internal, nil, "")
	require.Len(t, live, 2)
	assert.Equal(t, "foo", live[0].TagName)
	assert.Equal(t, "bar", live[1].TagName)
	assert.Contains(t, live[0].Classes, ClassRenderRect)

	export := Inspect(def, types.Simple, inputs("type", "bar"), "")
	require.Len(t, export, 1)
	assert.Equal(t, "bar", export[0].TagName)
	assert.Equal(t, "simple", export[0].Mode)
	assert.Empty(t, export[0].Attributes)
}
