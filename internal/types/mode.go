package types

import (
	"fmt"
	"strings"
)

// BuildMode selects the flavour of markup a template function produces.
type BuildMode int

const (
	// Internal produces live, binding-rich markup for the editor renderer.
	Internal BuildMode = iota
	// Simple produces static markup for copy-paste export.
	Simple
	// Application produces static markup accompanied by a stylesheet.
	Application
)

// String returns the string representation of the build mode
func (m BuildMode) String() string {
	switch m {
	case Internal:
		return "internal"
	case Simple:
		return "simple"
	case Application:
		return "application"
	default:
		return "unknown"
	}
}

// IsExport reports whether the mode produces static markup.
func (m BuildMode) IsExport() bool {
	return m == Simple || m == Application
}

// ParseBuildMode parses a mode name case-insensitively.
func ParseBuildMode(s string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "internal", "":
		return Internal, nil
	case "simple":
		return Simple, nil
	case "application", "app":
		return Application, nil
	default:
		return Internal, fmt.Errorf("unknown build mode %q, must be one of: internal, simple, application", s)
	}
}
