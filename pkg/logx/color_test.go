package logx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestColorizeStatusWith_NoColorIsPlainNumber(t *testing.T) {
	assert.Equal(t, "200", ColorizeStatusWith(200, false))
}

func TestColorizeStatusWith_ColorWrapsWithBand(t *testing.T) {
	out := ColorizeStatusWith(200, true)
	assert.Contains(t, out, "200")
	assert.Contains(t, out, colorGreen)
	assert.Contains(t, out, colorReset)
}

func TestColorizeStatusWith_BandsByStatusClass(t *testing.T) {
	assert.Contains(t, ColorizeStatusWith(301, true), colorWhite)
	assert.Contains(t, ColorizeStatusWith(404, true), colorYellow)
	assert.Contains(t, ColorizeStatusWith(500, true), colorRed)
}

func TestFormatRequestLineWithColor_IncludesCoreFields(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	line := FormatRequestLineWithColor(ts, 200, 5*time.Millisecond, "127.0.0.1", "GET", "/a.jpg", map[string]any{
		"id":         "/a.jpg",
		"request_id": "abc123",
	}, false)

	assert.Contains(t, line, "200")
	assert.Contains(t, line, "GET")
	assert.Contains(t, line, "/a.jpg")
	assert.Contains(t, line, "id=/a.jpg")
	assert.Contains(t, line, "request_id=abc123")
}

func TestFormatRequestLineWithColor_OmitsAbsentFields(t *testing.T) {
	line := FormatRequestLineWithColor(time.Now(), 200, 0, "", "GET", "/x", nil, false)
	assert.NotContains(t, line, "id=")
	assert.NotContains(t, line, "request_id=")
}
