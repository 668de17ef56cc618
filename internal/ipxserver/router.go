package ipxserver

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/ipx/pkg/config"
	"github.com/r9s-ai/ipx/pkg/logx"
	"github.com/r9s-ai/ipx/pkg/requestid"
)

// NewRouter builds the gin engine: request-id and access-log middleware,
// panic recovery, a health check, and the catch-all image route.
func NewRouter(st *state, cfg *config.Config, accessLogger *log.Logger, accessLoggerColor bool, accessFormatter *logx.AccessLogFormatter) *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(cfg.Server.RequestIDHeader)

	r := gin.New()
	r.Use(requestIDMiddleware(headerKey))
	if cfg.Logging.AccessLog && accessLogger != nil {
		r.Use(accessLogMiddleware(accessLogger, accessLoggerColor, headerKey, accessFormatter))
	}
	r.Use(gin.Recovery())

	// gin rejects a static route registered beside a catch-all at the root,
	// so the health check is dispatched from inside the catch-all route.
	image := imageHandler(st)
	r.GET("/*path", func(c *gin.Context) {
		if c.Param("path") == "/healthz" {
			healthHandler(c)
			return
		}
		image(c)
	})

	return r
}

// NewAdminRouter builds the loopback-bound admin engine serving only the
// dashboard's websocket stream (§6.5).
func NewAdminRouter(st *state) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/admin/ws", adminWSHandler(&st.counters))
	return r
}
