// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims surrounding whitespace and preserves case.
func Name(s string) string { return strings.TrimSpace(s) }

// Status trims and lowercases an enum-like value (status, urgency, role).
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a query string value.
func QueryParam(s string) string { return strings.TrimSpace(s) }

// List trims every entry, drops blanks, and keeps at most max entries
// (max <= 0 means no cap). The result is never nil.
func List(in []string, max int) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
