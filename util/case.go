package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func ToTitleCase(s string) string {
	// * split on underscores and hyphens, title case each part, then join
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})
	caser := cases.Title(language.English)
	for i, part := range parts {
		parts[i] = caser.String(strings.ToLower(part))
	}
	return strings.Join(parts, "")
}

func ToCamelCase(s string) string {
	title := ToTitleCase(s)
	if title == "" {
		return title
	}

	// * lower the first rune only
	return strings.ToLower(title[:1]) + title[1:]
}
