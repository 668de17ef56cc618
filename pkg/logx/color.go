package logx

import (
	"fmt"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[97;42m"
	colorWhite  = "\033[90;47m"
	colorYellow = "\033[90;43m"
	colorRed    = "\033[97;41m"
)

// ColorizeStatusWith renders an HTTP status code, optionally wrapped in the
// same background-color bands gin's own console logger uses.
func ColorizeStatusWith(status int, color bool) string {
	if !color {
		return fmt.Sprintf("%d", status)
	}
	var band string
	switch {
	case status >= 200 && status < 300:
		band = colorGreen
	case status >= 300 && status < 400:
		band = colorWhite
	case status >= 400 && status < 500:
		band = colorYellow
	default:
		band = colorRed
	}
	return fmt.Sprintf("%s %d %s", band, status, colorReset)
}

// FormatRequestLineWithColor renders a default access log line when no
// custom format/preset is configured.
func FormatRequestLineWithColor(
	ts time.Time,
	status int,
	latency time.Duration,
	clientIP, method, path string,
	fields map[string]any,
	color bool,
) string {
	line := fmt.Sprintf("%s | %s | %13s | %15s | %-7s %s",
		ts.Format("2006/01/02 - 15:04:05"),
		ColorizeStatusWith(status, color),
		latency.String(),
		clientIP,
		method,
		path,
	)
	if id, ok := fields["id"]; ok {
		line += fmt.Sprintf(" id=%v", id)
	}
	if reqID, ok := fields["request_id"]; ok {
		line += fmt.Sprintf(" request_id=%v", reqID)
	}
	return line
}
