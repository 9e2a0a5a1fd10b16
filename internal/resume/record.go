package resume

import (
	"regexp"
	"strings"
)

// Record is the structured value extracted from a resume. The extraction
// service does not guarantee a fixed shape, so the record stays a generic
// mapping with safe accessors on top.
type Record map[string]any

// ListFields enumerates the schema keys expected to hold lists of sections.
var ListFields = []string{"work", "education", "projects", "certifications", "achievements"}

// ScalarFields enumerates the schema keys expected to hold plain strings.
var ScalarFields = []string{
	"first_name", "last_name", "email", "phone", "location", "skills", "summary",
}

var (
	allowedChars = regexp.MustCompile(`[^\w\s\-.,;:()@/\\&%$#!?+=*<>{}[\]|~` + "`" + `"'°]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// CleanText strips characters that tend to break downstream PDF generation
// and collapses runs of whitespace.
func CleanText(text string) string {
	text = allowedChars.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// String returns the cleaned string stored under key, or the empty string
// when the key is missing or holds a non-string value.
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	if v, ok := r[key].(string); ok {
		return CleanText(v)
	}
	return ""
}

// List returns the slice stored under key, or nil when the key is missing or
// holds a non-slice value.
func (r Record) List(key string) []any {
	if r == nil {
		return nil
	}
	if v, ok := r[key].([]any); ok {
		return v
	}
	return nil
}

// Map returns the mapping stored under key, or nil when the key is missing or
// holds a non-mapping value.
func (r Record) Map(key string) map[string]any {
	if r == nil {
		return nil
	}
	if v, ok := r[key].(map[string]any); ok {
		return v
	}
	return nil
}

// CleanValue applies CleanText recursively to every string reachable from v.
// Non-string scalars are returned unchanged.
func CleanValue(v any) any {
	switch val := v.(type) {
	case string:
		return CleanText(val)
	case map[string]any:
		cleaned := make(map[string]any, len(val))
		for k, item := range val {
			cleaned[k] = CleanValue(item)
		}
		return cleaned
	case []any:
		cleaned := make([]any, 0, len(val))
		for _, item := range val {
			cleaned = append(cleaned, CleanValue(item))
		}
		return cleaned
	default:
		return v
	}
}
