package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// definitionExtensions lists the file types definitions and documents load from.
var definitionExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidatePath validates a definition or document path to prevent path traversal
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal detected: %s", path)
	}

	restrictedPaths := []string{
		"/etc/shadow",
		"/proc/",
		"/sys/",
		"/dev/",
	}

	cleanPathLower := strings.ToLower(cleanPath)
	for _, restricted := range restrictedPaths {
		if strings.HasPrefix(cleanPathLower, restricted) {
			return fmt.Errorf("access to restricted path denied: %s", path)
		}
	}

	return nil
}

// IsDefinitionFile reports whether the path has a loadable extension.
func IsDefinitionFile(path string) bool {
	return definitionExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateOrigin validates WebSocket origin for CSRF protection
func ValidateOrigin(origin string, allowedOrigins []string) error {
	if origin == "" {
		return fmt.Errorf("origin header is required")
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin format: %w", err)
	}

	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme '%s': only http and https are allowed", originURL.Scheme)
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed || originURL.Host == allowed {
			return nil
		}
	}

	return fmt.Errorf("origin '%s' is not in allowed origins list", origin)
}
