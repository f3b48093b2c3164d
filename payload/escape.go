package payload

import "strings"

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeXML converts &, <, > and " into their XML entities. Empty input
// yields an empty string. The replacement runs in a single pass over the
// original text, so escaping unescaped input once is always safe.
func EscapeXML(text string) string {
	if text == "" {
		return ""
	}
	return xmlReplacer.Replace(text)
}
