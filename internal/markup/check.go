// Package markup audits exported markup. Exported output must be plain
// HTML: no live binding syntax, balanced tags, and the basic accessibility
// rules a static page can satisfy.
package markup

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"

	ferrors "github.com/conneroisu/forge/internal/errors"
)

// Rule ids reported in Finding.Rule.
const (
	RuleLiveSyntax    = "live-syntax"
	RuleUnbalancedTag = "unbalanced-tag"
	RuleMissingAlt    = "missing-alt-text"
	RuleButtonText    = "missing-button-text"
	RuleFormLabel     = "missing-form-label"
	RuleDuplicateID   = "duplicate-id"
)

// voidElements never have a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// liveElements only exist in live templates.
var liveElements = map[string]bool{
	"ng-container": true,
	"ng-template":  true,
}

// Finding is one problem in a piece of markup.
type Finding struct {
	Rule     string
	Element  string
	Message  string
	Severity ferrors.Severity
}

func (f Finding) String() string {
	if f.Element == "" {
		return fmt.Sprintf("%s: %s: %s", f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s: %s: <%s> %s", f.Severity, f.Rule, f.Element, f.Message)
}

// Problem converts the finding for an errors.Collector.
func (f Finding) Problem(file string) ferrors.Problem {
	return ferrors.Problem{
		File:     file,
		Field:    f.Rule,
		Message:  f.Message,
		Severity: f.Severity,
	}
}

// Report is the result of checking one piece of markup.
type Report struct {
	Findings []Finding
}

// HasErrors reports whether any finding is of error severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == ferrors.SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of findings for a rule.
func (r *Report) Count(rule string) int {
	n := 0
	for _, f := range r.Findings {
		if f.Rule == rule {
			n++
		}
	}
	return n
}

// Check audits exported markup. Live syntax and unbalanced tags are errors;
// accessibility findings are warnings.
func Check(markup string) (*Report, error) {
	report := &Report{}

	balance, err := checkBalance(markup)
	if err != nil {
		return nil, err
	}
	report.Findings = append(report.Findings, balance...)

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	elements := extractElements(doc)
	report.Findings = append(report.Findings, checkLiveSyntax(doc)...)
	report.Findings = append(report.Findings, checkAccessibility(elements)...)

	return report, nil
}

// checkBalance walks the raw token stream, since the parser silently
// repairs mismatched tags.
func checkBalance(markup string) ([]Finding, error) {
	var findings []Finding
	var stack []string

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return nil, fmt.Errorf("failed to tokenize markup: %w", z.Err())
			}
			for i := len(stack) - 1; i >= 0; i-- {
				findings = append(findings, Finding{
					Rule:     RuleUnbalancedTag,
					Element:  stack[i],
					Message:  "element is never closed",
					Severity: ferrors.SeverityError,
				})
			}
			return findings, nil
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) > 0 && stack[len(stack)-1] == tag {
				stack = stack[:len(stack)-1]
				continue
			}
			findings = append(findings, Finding{
				Rule:     RuleUnbalancedTag,
				Element:  tag,
				Message:  "closing tag does not match an open element",
				Severity: ferrors.SeverityError,
			})
		}
	}
}

func extractElements(node *html.Node) []*html.Node {
	var elements []*html.Node

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(node)
	return elements
}

func checkLiveSyntax(doc *html.Node) []Finding {
	var findings []Finding
	add := func(tag, format string, args ...interface{}) {
		findings = append(findings, Finding{
			Rule:     RuleLiveSyntax,
			Element:  tag,
			Message:  fmt.Sprintf(format, args...),
			Severity: ferrors.SeverityError,
		})
	}

	var traverse func(n *html.Node, raw bool)
	traverse = func(n *html.Node, raw bool) {
		switch n.Type {
		case html.ElementNode:
			if liveElements[n.Data] {
				add(n.Data, "live template element")
			}
			for _, a := range n.Attr {
				if isLiveAttribute(a.Key) {
					add(n.Data, "live binding %s", a.Key)
				}
			}
			raw = n.Data == "style" || n.Data == "script"
		case html.TextNode:
			if !raw && strings.Contains(n.Data, "{{") {
				add(parentTag(n), "interpolation in text")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c, raw)
		}
	}

	traverse(doc, false)
	return findings
}

func isLiveAttribute(key string) bool {
	return strings.HasPrefix(key, "[") || strings.HasPrefix(key, "(") ||
		strings.HasPrefix(key, "*") || strings.HasPrefix(key, "#")
}

func parentTag(n *html.Node) string {
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		return n.Parent.Data
	}
	return ""
}

func checkAccessibility(elements []*html.Node) []Finding {
	var findings []Finding
	add := func(rule, tag, msg string) {
		findings = append(findings, Finding{Rule: rule, Element: tag, Message: msg, Severity: ferrors.SeverityWarning})
	}

	ids := make(map[string]int)
	for _, el := range elements {
		if id, ok := attr(el, "id"); ok && id != "" {
			ids[id]++
		}

		switch el.Data {
		case "img":
			if alt, ok := attr(el, "alt"); !ok || alt == "" {
				add(RuleMissingAlt, el.Data, "image missing alt attribute")
			}
		case "button":
			if !hasAccessibleName(el) {
				add(RuleButtonText, el.Data, "button missing accessible name")
			}
		case "input", "select", "textarea":
			if t, _ := attr(el, "type"); t == "hidden" {
				continue
			}
			if !hasAssociatedLabel(el, elements) {
				add(RuleFormLabel, el.Data, "form control missing associated label")
			}
		}
	}

	dupes := make([]string, 0)
	for id, n := range ids {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		add(RuleDuplicateID, "", fmt.Sprintf("duplicate id %q", id))
	}

	return findings
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return b.String()
}

func hasAccessibleName(n *html.Node) bool {
	if strings.TrimSpace(textContent(n)) != "" {
		return true
	}
	if _, ok := attr(n, "aria-label"); ok {
		return true
	}
	_, ok := attr(n, "aria-labelledby")
	return ok
}

func hasAssociatedLabel(n *html.Node, elements []*html.Node) bool {
	if _, ok := attr(n, "aria-label"); ok {
		return true
	}
	if _, ok := attr(n, "aria-labelledby"); ok {
		return true
	}

	if id, ok := attr(n, "id"); ok {
		for _, el := range elements {
			if el.Data != "label" {
				continue
			}
			if forAttr, ok := attr(el, "for"); ok && forAttr == id {
				return true
			}
		}
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			return true
		}
	}
	return false
}
