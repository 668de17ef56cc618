package ipx

import (
	"net/url"
	"strings"

	"github.com/r9s-ai/ipx/pkg/sanitize"
)

// SanitizeString runs the response-shaper's stringify-strip pass over a
// decoded modifier key or value before it is stored in a Modifiers map, so
// those strings never carry double quotes or raw newlines. The id returned
// by DecodeRequest is not passed through it.
func SanitizeString(s string) string {
	return sanitize.ModifierFragment(s)
}

// Modifiers is an unordered mapping from modifier name to raw argument
// string. Keys are case-sensitive; empty value strings are legal.
type Modifiers map[string]string

// DecodeRequest parses path into (modifiers, id). path is expected in the
// shape "/<modifiersSegment>/<idSegments...>".
func DecodeRequest(path string) (Modifiers, string, error) {
	trimmed := strings.TrimPrefix(path, "/")
	parts := strings.SplitN(trimmed, "/", 2)

	modSeg := parts[0]
	var rawID string
	if len(parts) > 1 {
		rawID = parts[1]
	}

	if strings.TrimSpace(modSeg) == "" {
		return nil, "", BadRequest("Modifiers are missing")
	}

	id, err := url.PathUnescape(rawID)
	if err != nil {
		return nil, "", BadRequest("Resource id is missing")
	}
	if id == "" || id == "/" {
		return nil, "", BadRequest("Resource id is missing")
	}

	mods, err := decodeModifiers(modSeg)
	if err != nil {
		return nil, "", err
	}
	return mods, id, nil
}

func decodeModifiers(seg string) (Modifiers, error) {
	if seg == "_" {
		return Modifiers{}, nil
	}

	mods := Modifiers{}
	for _, entry := range splitAny(seg, ",&") {
		if entry == "" {
			continue
		}
		key, value := splitEntry(entry)
		decodedValue, err := url.PathUnescape(value)
		if err != nil {
			decodedValue = value
		}
		mods[SanitizeString(key)] = SanitizeString(decodedValue)
	}
	return mods, nil
}

func splitEntry(entry string) (string, string) {
	idx := strings.IndexAny(entry, "_=:")
	if idx < 0 {
		return entry, ""
	}
	return entry[:idx], entry[idx+1:]
}

func splitAny(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

var urlSchemePrefixes = []string{"http://", "https://", "ftp://", "data:"}

func hasScheme(id string) bool {
	lower := strings.ToLower(id)
	for _, p := range urlSchemePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Alias is a prefix-to-prefix rewrite applied once to a normalized id.
type Alias struct {
	Base        string
	Replacement string
}

// NormalizeID ensures id starts with a URL scheme or a leading slash, then
// applies at most one matching alias rewrite, in configured order.
func NormalizeID(id string, aliases []Alias) string {
	id = normalizeLeadingSlash(id)
	for _, a := range aliases {
		base := normalizeLeadingSlash(a.Base)
		if strings.HasPrefix(id, base) {
			return joinPath(a.Replacement, id[len(base):])
		}
	}
	return id
}

func normalizeLeadingSlash(id string) string {
	if hasScheme(id) {
		return id
	}
	if strings.HasPrefix(id, "/") {
		return id
	}
	return "/" + id
}

func joinPath(base, rest string) string {
	if hasScheme(base) {
		return base + rest
	}
	base = normalizeLeadingSlash(base)
	if rest == "" {
		return base
	}
	if strings.HasSuffix(base, "/") && strings.HasPrefix(rest, "/") {
		return base + rest[1:]
	}
	if !strings.HasSuffix(base, "/") && !strings.HasPrefix(rest, "/") {
		return base + "/" + rest
	}
	return base + rest
}

// NormalizeAliases normalizes configured alias bases to start with "/".
func NormalizeAliases(in []Alias) []Alias {
	out := make([]Alias, len(in))
	for i, a := range in {
		out[i] = Alias{Base: normalizeLeadingSlash(a.Base), Replacement: a.Replacement}
	}
	return out
}
