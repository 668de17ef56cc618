// Package sanitize implements the response-shaping safety pass: a
// stringify-strip transform that neutralizes embedded quotes and newlines,
// and an HTML/script sanitizer for string response bodies.
package sanitize

import (
	"encoding/json"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// StringifyStrip JSON-stringifies s, then strips the outer quotes. This
// neutralizes embedded double quotes and newlines the same way a
// JSON.stringify(s).slice(1,-1) pass would.
func StringifyStrip(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	out := string(b)
	if len(out) >= 2 {
		out = out[1 : len(out)-1]
	}
	return out
}

// HTML strips script sequences and tags from a string body after it has
// already passed through StringifyStrip.
func HTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// ModifierFragment runs a decoded modifier key/value fragment through the
// same stringify-strip pass used for response strings and then drops the
// escaped double quotes, so the result holds no '"' character, since these
// values are later echoed back in cache keys and, indirectly, log lines.
func ModifierFragment(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(StringifyStrip(s), `\"`, ""))
}
