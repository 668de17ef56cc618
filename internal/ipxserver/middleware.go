package ipxserver

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/ipx/pkg/logx"
	"github.com/r9s-ai/ipx/pkg/requestid"
)

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = requestid.Gen()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		c.Next()
	}
}

// accessLogMiddleware logs one line per request through formatter, or the
// default colorized line when formatter is nil.
func accessLogMiddleware(l *log.Logger, color bool, requestIDHeaderKey string, formatter *logx.AccessLogFormatter) gin.HandlerFunc {
	requestIDHeaderKey = requestid.ResolveHeaderKey(requestIDHeaderKey)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		fields := map[string]any{
			"request_id": c.GetString(requestIDHeaderKey),
		}
		if id := c.GetString("ipx.id"); id != "" {
			fields["id"] = id
		}
		if format := c.GetString("ipx.format"); format != "" {
			fields["format"] = format
		}
		fields["cache"] = c.GetString("ipx.cache")

		ts := time.Now()
		if formatter != nil {
			l.Println(formatter.Format(ts, status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path, fields, color))
			return
		}
		l.Println(logx.FormatRequestLineWithColor(ts, status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path, fields, color))
	}
}
