package ipx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest_Basic(t *testing.T) {
	mods, id, err := DecodeRequest("/w_100,h_200/path/to/image.jpg")
	require.NoError(t, err)
	assert.Equal(t, "path/to/image.jpg", id)
	assert.Equal(t, "100", mods["w"])
	assert.Equal(t, "200", mods["h"])
}

func TestDecodeRequest_UnderscoreModifiersMeansNone(t *testing.T) {
	mods, id, err := DecodeRequest("/_/foo.png")
	require.NoError(t, err)
	assert.Empty(t, mods)
	assert.Equal(t, "foo.png", id)
}

func TestDecodeRequest_MissingModifiers(t *testing.T) {
	_, _, err := DecodeRequest("/")
	require.Error(t, err)
	assert.Equal(t, 400, AsIPXError(err).StatusCode)
}

func TestDecodeRequest_MissingID(t *testing.T) {
	_, _, err := DecodeRequest("/w_100")
	require.Error(t, err)
	assert.Equal(t, 400, AsIPXError(err).StatusCode)
}

func TestDecodeRequest_RemoteID(t *testing.T) {
	mods, id, err := DecodeRequest("/w_100/https://example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.jpg", id)
	assert.Equal(t, "100", mods["w"])
}

func TestDecodeRequest_AmpersandSeparator(t *testing.T) {
	mods, _, err := DecodeRequest("/w_100&h_200/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "100", mods["w"])
	assert.Equal(t, "200", mods["h"])
}

func TestDecodeRequest_ColonAndEqualsSeparators(t *testing.T) {
	mods, _, err := DecodeRequest("/fit:cover,q=50/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "cover", mods["fit"])
	assert.Equal(t, "50", mods["q"])
}

func TestDecodeRequest_SanitizesModifierFragments(t *testing.T) {
	mods, _, err := DecodeRequest(`/b_"red"/a.jpg`)
	require.NoError(t, err)
	assert.NotContains(t, mods["b"], `"`)
}

func TestNormalizeID_LeadingSlash(t *testing.T) {
	assert.Equal(t, "/a.jpg", NormalizeID("a.jpg", nil))
	assert.Equal(t, "/a.jpg", NormalizeID("/a.jpg", nil))
}

func TestNormalizeID_PreservesScheme(t *testing.T) {
	assert.Equal(t, "https://x.com/a.jpg", NormalizeID("https://x.com/a.jpg", nil))
}

func TestNormalizeID_AppliesFirstMatchingAlias(t *testing.T) {
	aliases := NormalizeAliases([]Alias{
		{Base: "/img", Replacement: "/static/images"},
		{Base: "/img/special", Replacement: "/should-not-match"},
	})
	got := NormalizeID("/img/cat.png", aliases)
	assert.Equal(t, "/static/images/cat.png", got)
}

func TestNormalizeID_AliasToRemoteBase(t *testing.T) {
	aliases := NormalizeAliases([]Alias{
		{Base: "/cdn", Replacement: "https://cdn.example.com"},
	})
	got := NormalizeID("/cdn/a.jpg", aliases)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got)
}

func TestNormalizeID_NoMatchingAliasPassesThrough(t *testing.T) {
	aliases := NormalizeAliases([]Alias{{Base: "/img", Replacement: "/static"}})
	assert.Equal(t, "/other.jpg", NormalizeID("/other.jpg", aliases))
}
