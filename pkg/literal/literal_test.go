package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Primitives(t *testing.T) {
	assert.Equal(t, "", Parse(""))
	assert.Equal(t, true, Parse("true"))
	assert.Equal(t, false, Parse("false"))
	assert.Nil(t, Parse("null"))
	assert.Equal(t, 42.0, Parse("42"))
	assert.Equal(t, -1.5, Parse("-1.5"))
}

func TestParse_JSONFragments(t *testing.T) {
	v := Parse(`{"a":1}`)
	m, ok := v.(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, 1.0, m["a"])
	}

	arr := Parse(`[1,2,3]`)
	_, ok = arr.([]any)
	assert.True(t, ok)
}

func TestParse_FallsBackToRawString(t *testing.T) {
	assert.Equal(t, "cover", Parse("cover"))
	assert.Equal(t, "#fff", Parse("#fff"))
}

func TestInt_CoercesVariants(t *testing.T) {
	assert.Equal(t, 5, Int(5.0, 0))
	assert.Equal(t, 5, Int(5, 0))
	assert.Equal(t, 5, Int("5", 0))
	assert.Equal(t, 9, Int("not-a-number", 9))
	assert.Equal(t, 9, Int(nil, 9))
}

func TestFloat_CoercesVariants(t *testing.T) {
	assert.InDelta(t, 1.5, Float(1.5, 0), 0.0001)
	assert.InDelta(t, 1.5, Float("1.5", 0), 0.0001)
	assert.InDelta(t, 9, Float("nope", 9), 0.0001)
}

func TestBool_CoercesVariants(t *testing.T) {
	assert.True(t, Bool(true))
	assert.False(t, Bool(false))
	assert.False(t, Bool(""))
	assert.False(t, Bool("0"))
	assert.False(t, Bool("off"))
	assert.True(t, Bool("1"))
	assert.True(t, Bool("yes"))
	assert.False(t, Bool(nil))
	assert.True(t, Bool(5.0))
}

func TestString_CoercesVariants(t *testing.T) {
	assert.Equal(t, "x", String("x"))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "5", String(5.0))
}
