// Package etag computes the stable content hash the HTTP facade uses as
// an entity tag (§4.6). Stability, not collision-resistance, is the only
// requirement, so a non-cryptographic hash suffices.
package etag

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// Compute returns a quoted strong ETag value derived from data's xxh3
// digest, the same hasher the pack uses for content-addressed blob ids.
func Compute(data []byte) string {
	return `"` + strconv.FormatUint(xxh3.Hash(data), 16) + `"`
}

// Matches reports whether the request's If-None-Match header value
// matches etag, including the "*" wildcard form.
func Matches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}
