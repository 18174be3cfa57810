// Package htmlsanitize cleans admin-authored CMS text before it is stored.
//
// Announcement bodies may carry light formatting and go through a UGC policy;
// single-line fields (titles, the emergency banner) are reduced to plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce   sync.Once
	richPolicy *bluemonday.Policy

	plainOnce   sync.Once
	plainPolicy *bluemonday.Policy
)

func rich() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "mark")
		p.AllowAttrs("class").OnElements("p", "span", "ul", "ol", "li")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		richPolicy = p
	})
	return richPolicy
}

func plain() *bluemonday.Policy {
	plainOnce.Do(func() { plainPolicy = bluemonday.StrictPolicy() })
	return plainPolicy
}

// Sanitize returns s with scripts, event handlers, unsafe URLs and
// unknown elements removed. Basic formatting, links and lists survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(rich().Sanitize(s))
}

// StripTags reduces s to plain text. Entities are decoded so the result is
// stored as the reader should see it.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plain().Sanitize(s)))
}

// IsPlainText reports whether s looks free of markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
