package requestid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGen_Format(t *testing.T) {
	id := Gen()
	assert.Len(t, id, 28)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{28}$`), id)
}

func TestGen_Unique(t *testing.T) {
	a := Gen()
	b := Gen()
	assert.NotEqual(t, a, b)
}

func TestResolveHeaderKey_UsesConfiguredValue(t *testing.T) {
	assert.Equal(t, "X-My-Id", ResolveHeaderKey("X-My-Id"))
}

func TestResolveHeaderKey_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultHeaderKey, ResolveHeaderKey(""))
	assert.Equal(t, DefaultHeaderKey, ResolveHeaderKey("   "))
}

func TestRandomDigits_Length(t *testing.T) {
	assert.Empty(t, randomDigits(0))
	s := randomDigits(12)
	assert.Len(t, s, 12)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{12}$`), s)
}

func TestTimeString_FixedLength(t *testing.T) {
	assert.Len(t, timeString(), 20)
}

func TestCryptoRandIntn_ZeroReturnsZero(t *testing.T) {
	assert.Equal(t, 0, cryptoRandIntn(0))
}
