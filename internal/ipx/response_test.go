package ipx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShape_DefaultsStatusAndMessage(t *testing.T) {
	out := Shape(Response{})
	assert.Equal(t, 200, out.StatusCode)
	assert.Equal(t, "OK", out.StatusMessage)
}

func TestShape_SanitizesStringBody(t *testing.T) {
	out := Shape(Response{StringBody: "<script>alert(1)</script>hello"})
	assert.NotContains(t, out.StringBody, "<script>")
	assert.Contains(t, out.StringBody, "hello")
}

func TestShape_BytesBodyClearsStringBody(t *testing.T) {
	out := Shape(Response{IsBytes: true, BytesBody: []byte{1, 2, 3}, StringBody: "ignored"})
	assert.Empty(t, out.StringBody)
	assert.Equal(t, []byte{1, 2, 3}, out.BytesBody)
}

func TestShape_StripsHeaderValues(t *testing.T) {
	out := Shape(Response{Headers: map[string]string{"X-Foo": "line1\nline2"}})
	assert.NotContains(t, out.Headers["X-Foo"], "\n")
}

func TestErrorResponse_KnownErrorGetsIPXPrefix(t *testing.T) {
	resp := ErrorResponse(BadRequest("missing id"))
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "IPX: missing id", resp.StatusMessage)
}

func TestErrorResponse_UpstreamErrorKeepsOwnMessage(t *testing.T) {
	resp := ErrorResponse(UpstreamError(404, "Not Found"))
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Not Found", resp.StatusMessage)
}

func TestErrorResponse_UnknownErrorMapsTo500(t *testing.T) {
	resp := ErrorResponse(assertError{"boom"})
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "IPX Error (500)", resp.StatusMessage)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
