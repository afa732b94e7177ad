package format

import (
	"regexp"
	"strings"
)

var (
	mdV1Specials = regexp.MustCompile("([_*`\\[])")
	// legacy Markdown ignores backslash escapes inside an entity, so the
	// markers are dropped from bold text instead.
	boldMarkers = strings.NewReplacer("_", " ", "*", "", "`", "", "[", "", "]", "")
)

// EscapeMarkdown escapes user-provided text for Telegram's legacy Markdown mode.
func EscapeMarkdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}

// Bold wraps text in legacy Markdown bold markers after removing any
// Markdown markers it contains.
func Bold(text string) string {
	text = strings.Join(strings.Fields(boldMarkers.Replace(text)), " ")
	if text == "" {
		return ""
	}
	return "*" + text + "*"
}
