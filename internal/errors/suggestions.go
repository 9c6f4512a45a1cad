package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Suggestion is a hint for fixing an error.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Command     string `json:"command,omitempty"`
}

// UnknownComponentSuggestions suggests registered ids resembling id.
func UnknownComponentSuggestions(id string, known []string) []Suggestion {
	suggestions := []Suggestion{{
		Title:       "List the registered components",
		Description: "Component ids and aliases are case sensitive",
		Command:     "forge list",
	}}

	for _, name := range similar(id, known, 3) {
		suggestions = append(suggestions, Suggestion{
			Title:   fmt.Sprintf("Did you mean %q?", name),
			Command: "forge compile " + name,
		})
	}

	return suggestions
}

// similar returns up to limit names sharing a substring with id, closest
// length first.
func similar(id string, known []string, limit int) []string {
	needle := strings.ToLower(id)
	var matches []string
	for _, name := range known {
		lower := strings.ToLower(name)
		if needle != "" && (strings.Contains(lower, needle) || strings.Contains(needle, lower)) {
			matches = append(matches, name)
		}
	}

	distance := func(s string) int {
		d := len(s) - len(id)
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return distance(matches[i]) < distance(matches[j])
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// FormatSuggestions renders a title followed by numbered suggestions.
func FormatSuggestions(title string, suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\nSuggestions:\n")
	for i, s := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s.Title))
		if s.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", s.Description))
		}
		if s.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", s.Command))
		}
	}
	return output.String()
}

// EnhancedError wraps an error with suggestions.
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []Suggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates an error carrying suggestions.
func NewEnhancedError(title string, original error, suggestions []Suggestion) *EnhancedError {
	return &EnhancedError{OriginalError: original, Title: title, Suggestions: suggestions}
}
