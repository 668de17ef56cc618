package logx

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

type formatPart struct {
	literal string
	varName string
}

// AccessLogFormatter compiles a "$variable"-style access log line template
// (§4.9) once at startup and renders it per request without re-parsing.
type AccessLogFormatter struct {
	parts []formatPart
}

var accessLogFormatPresets = map[string]string{
	"ipx_combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id id=$id modifiers=$modifiers format=$format cache=$cache",
	"ipx_minimal":  "$time_local | $status | $latency | $method $path | id=$id",
}

var allowedAccessLogVars = map[string]struct{}{
	"time_local": {},
	"status":     {},
	"latency":    {},
	"latency_ms": {},
	"client_ip":  {},
	"method":     {},
	"path":       {},
	"request_id": {},
	"id":         {},
	"modifiers":  {},
	"format":     {},
	"cache":      {},
}

// ResolveAccessLogFormat returns format verbatim if set, else expands a
// named preset, else "" for "no access log".
func ResolveAccessLogFormat(format, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return "", nil
	}
	out, ok := accessLogFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid access_log_format_preset: %q", preset)
	}
	return out, nil
}

// CompileAccessLogFormat parses a template string into a reusable
// AccessLogFormatter, rejecting any variable not in the allow-list.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	s := strings.TrimSpace(format)
	if s == "" {
		return nil, nil
	}
	parts := make([]formatPart, 0, 8)
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, formatPart{literal: lit.String()})
		lit.Reset()
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '$' {
			lit.WriteByte(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '$' {
			lit.WriteByte('$')
			i++
			continue
		}
		flushLiteral()
		j := i + 1
		for j < len(format) {
			r := rune(format[j])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			j++
		}
		if j == i+1 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", i)
		}
		name := format[i+1 : j]
		if _, ok := allowedAccessLogVars[name]; !ok {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", name)
		}
		parts = append(parts, formatPart{varName: name})
		i = j - 1
	}
	flushLiteral()
	return &AccessLogFormatter{parts: parts}, nil
}

// Format renders one access log line. fields supplies the per-request
// values (id, modifiers, format, cache outcome) beyond the fixed ones.
func (f *AccessLogFormatter) Format(
	ts time.Time,
	status int,
	latency time.Duration,
	clientIP string,
	method string,
	path string,
	fields map[string]any,
	color bool,
) string {
	if f == nil || len(f.parts) == 0 {
		return ""
	}
	vars := map[string]string{
		"time_local": ts.Format("2006/01/02 - 15:04:05"),
		"status":     ColorizeStatusWith(status, color),
		"latency":    latency.String(),
		"latency_ms": fmt.Sprintf("%d", latency.Milliseconds()),
		"client_ip":  strings.TrimSpace(clientIP),
		"method":     strings.TrimSpace(method),
		"path":       path,
	}
	for k, v := range fields {
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" || s == "<nil>" {
			continue
		}
		vars[k] = s
	}

	var b strings.Builder
	for _, p := range f.parts {
		if p.literal != "" {
			b.WriteString(p.literal)
			continue
		}
		v := strings.TrimSpace(vars[p.varName])
		if v == "" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

// AccessLogAllowedVars lists the variable names CompileAccessLogFormat
// accepts, sorted, for use in config validation error messages.
func AccessLogAllowedVars() []string {
	keys := make([]string, 0, len(allowedAccessLogVars))
	for k := range allowedAccessLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
