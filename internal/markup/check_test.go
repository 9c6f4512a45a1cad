package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/conneroisu/forge/internal/errors"
)

func TestCheckCleanMarkup(t *testing.T) {
	markup := `<link rel="stylesheet" href="https://fonts.example.com/inter.css">` +
		"<style>\n.el-t1 { color: red; }\n</style>" +
		`<div class="el-b1 board"><h1>Title</h1><img src="a.png" alt="Logo"><br>` +
		`<label>Name<input type="text"></label><button>Go</button></div>`

	report, err := Check(markup)
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.False(t, report.HasErrors())
}

func TestCheckLiveSyntax(t *testing.T) {
	testCases := []struct {
		name   string
		markup string
	}{
		{"property binding", `<p [title]="props?.inputs?.title"></p>`},
		{"output binding", `<button (click)="emit()">x</button>`},
		{"structural directive", `<div *ngIf="show"></div>`},
		{"template reference", `<div #ref></div>`},
		{"interpolation", `<p>{{ props?.inputs?.text }}</p>`},
		{"live element", `<ng-container></ng-container>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Check(tc.markup)
			require.NoError(t, err)
			assert.True(t, report.HasErrors())
			assert.GreaterOrEqual(t, report.Count(RuleLiveSyntax), 1)
		})
	}
}

func TestCheckIgnoresBracesInStyle(t *testing.T) {
	report, err := Check("<style>.a { color: red; }</style><p>{ not a binding }</p>")
	require.NoError(t, err)
	assert.Zero(t, report.Count(RuleLiveSyntax))
}

func TestCheckBalance(t *testing.T) {
	report, err := Check(`<div><span></div>`)
	require.NoError(t, err)
	assert.True(t, report.HasErrors())
	// </div> does not match <span>, then both stay open.
	assert.Equal(t, 3, report.Count(RuleUnbalancedTag))

	report, err = Check(`<p>text</p></section>`)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(RuleUnbalancedTag))

	report, err = Check(`<img src="a.png" alt="a"><input aria-label="x"><br/>`)
	require.NoError(t, err)
	assert.Zero(t, report.Count(RuleUnbalancedTag))
}

func TestCheckAccessibilityWarnings(t *testing.T) {
	markup := `<img src="a.png"><button></button><input type="text">` +
		`<input type="hidden"><p id="x"></p><p id="x"></p>` +
		`<label for="email">Email</label><input id="email">` +
		`<button aria-label="Close"></button>`

	report, err := Check(markup)
	require.NoError(t, err)

	assert.False(t, report.HasErrors(), "accessibility findings are warnings")
	assert.Equal(t, 1, report.Count(RuleMissingAlt))
	assert.Equal(t, 1, report.Count(RuleButtonText))
	assert.Equal(t, 1, report.Count(RuleFormLabel))
	assert.Equal(t, 1, report.Count(RuleDuplicateID))

	for _, f := range report.Findings {
		assert.Equal(t, ferrors.SeverityWarning, f.Severity)
	}
}

func TestFindingFormatting(t *testing.T) {
	f := Finding{Rule: RuleMissingAlt, Element: "img", Message: "image missing alt attribute", Severity: ferrors.SeverityWarning}
	assert.Equal(t, "warning: missing-alt-text: <img> image missing alt attribute", f.String())

	p := f.Problem("out.html")
	assert.Equal(t, "out.html", p.File)
	assert.Equal(t, RuleMissingAlt, p.Field)
	assert.Equal(t, ferrors.SeverityWarning, p.Severity)
}
