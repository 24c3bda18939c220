// Package html fills the small mustache-like templates used for batch
// preview pages: {{key}} is replaced by its value and {{#key}}...{{/key}}
// is kept only when key has a non-empty value.
package html

import (
	"regexp"
)

var (
	sectionPattern = regexp.MustCompile(`(?s){{#(\w+)}}(.*?){{/(\w+)}}`)
	tokenPattern   = regexp.MustCompile(`{{(\w+)}}`)
)

type Template struct {
	source string
}

func New(source string) *Template {
	return &Template{source: source}
}

// Execute does not escape values; callers escape what needs escaping.
func (t *Template) Execute(data map[string]string) string {
	result := sectionPattern.ReplaceAllStringFunc(t.source, func(match string) string {
		sub := sectionPattern.FindStringSubmatch(match)
		if sub[1] != sub[3] || data[sub[1]] == "" {
			return ""
		}
		return sub[2]
	})
	return tokenPattern.ReplaceAllStringFunc(result, func(match string) string {
		return data[tokenPattern.FindStringSubmatch(match)[1]]
	})
}

func Apply(template string, data map[string]string) string {
	return New(template).Execute(data)
}
