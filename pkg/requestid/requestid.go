// Package requestid generates and propagates the per-request correlation
// id used for access log lines and the response header, adapted from the
// teacher's time-prefixed id scheme.
package requestid

import (
	crand "crypto/rand"
	"math/big"
	"strings"
	"time"
)

// DefaultHeaderKey is used when no custom header key is configured.
const DefaultHeaderKey = "X-Request-Id"

// ResolveHeaderKey returns headerKey when non-empty, else DefaultHeaderKey.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen generates a request id: a microsecond-precision timestamp prefix
// plus 8 cryptographically random digits, so ids sort roughly by arrival
// time while still being unguessable.
func Gen() string {
	return timeString() + randomDigits(8)
}

func timeString() string {
	return strings.ReplaceAll(time.Now().Format("20060102150405.000000"), ".", "")
}

func randomDigits(n int) string {
	const digits = "0123456789"
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(digits[cryptoRandIntn(len(digits))])
	}
	return b.String()
}

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	nBig, err := crand.Int(crand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
