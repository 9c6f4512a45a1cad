package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IsMeaningful reports whether an export value should be rendered. false,
// nil and missing values are omitted.
func IsMeaningful(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}

// Stringify renders an input value as attribute or text content.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// ElementClassName derives the deterministic per-instance class name.
func ElementClassName(id string) string {
	return "el-" + sanitizeIdent(id)
}

// ScopedTagName derives the custom element name of a code component. Custom
// element names must contain a hyphen, which the prefix guarantees.
func ScopedTagName(id string) string {
	return "forge-cc-" + sanitizeIdent(id)
}

func sanitizeIdent(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
