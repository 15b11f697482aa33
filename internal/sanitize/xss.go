// Package sanitize neutralizes markup in user input before it reaches the
// validators or the database.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy = bluemonday.StrictPolicy()

	angleBrackets = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// String returns s unchanged when it carries no markup. Otherwise every angle
// bracket is escaped so the markup survives only as inert text, which the
// field validators then see and reject where markup is not allowed. Existing
// entities are never decoded.
func String(s string) string {
	if !HasMarkup(s) {
		return s
	}
	return angleBrackets.Replace(s)
}

// HasMarkup reports whether the allow-nothing policy would remove anything
// from s: an element, a comment or a processing instruction.
func HasMarkup(s string) bool {
	if !strings.ContainsAny(s, "<>") {
		return false
	}
	return html.UnescapeString(policy.Sanitize(s)) != s
}

// Map returns a copy of m with every string value passed through String.
// Other values are copied unchanged.
func Map(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	cleaned := make(map[string]interface{}, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			cleaned[k] = String(s)
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
