package ipxserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/ipx/internal/ipx"
	"github.com/r9s-ai/ipx/pkg/etag"
)

// imageHandler implements the request lifecycle of §4.6: decode, resolve
// source, handle conditional requests, run the pipeline, then shape and
// write the final response.
func imageHandler(st *state) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, registry, aliases, decoder, backend := st.snapshot()

		mods, id, err := ipx.DecodeRequest(c.Request.URL.Path)
		if err != nil {
			st.counters.recordRequest(false, true)
			writeError(c, err)
			return
		}
		id = ipx.NormalizeID(id, aliases)
		c.Set("ipx.id", id)

		// bypassDomain is a per-request opt-in (§4.2 step 2), never derived
		// from server config: an empty allow-list must still reject every
		// host via the supplier's own Forbidden("Forbidden host") branch.
		reqOpts := ipx.RequestOptions{}
		img, err := ipx.NewImageDescriptor(c.Request.Context(), registry, decoder, backend, id, mods, reqOpts)
		if err != nil {
			st.counters.recordRequest(false, true)
			writeError(c, err)
			return
		}

		src, err := img.Src()
		if err != nil {
			st.counters.recordRequest(false, true)
			writeError(c, err)
			return
		}

		if src.HasMTime {
			if ims := c.GetHeader("If-Modified-Since"); ims != "" {
				if t, parseErr := http.ParseTime(ims); parseErr == nil && !t.Before(src.MTime) {
					c.Status(http.StatusNotModified)
					return
				}
			}
			c.Header("Last-Modified", fmt.Sprintf("%d", src.MTime.UnixMilli()))
		}
		if src.HasMaxAge {
			c.Header("Cache-Control", fmt.Sprintf("max-age=%d, public, s-maxage=%d", src.MaxAge, src.MaxAge))
		}

		result, err := img.Data()
		if err != nil {
			st.counters.recordRequest(false, true)
			writeError(c, err)
			return
		}
		st.counters.recordRequest(img.CacheHit(), false)
		if img.CacheHit() {
			c.Set("ipx.cache", "hit")
		} else {
			c.Set("ipx.cache", "miss")
		}

		tag := etag.Compute(result.Bytes)
		c.Header("ETag", tag)
		if etag.Matches(c.GetHeader("If-None-Match"), tag) {
			c.Status(http.StatusNotModified)
			return
		}

		c.Set("ipx.format", result.Format)
		contentType := "image/" + result.Format
		c.Header("Content-Type", contentType)
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Data(http.StatusOK, contentType, result.Bytes)
	}
}

// writeError maps a pipeline failure through the response shaper (§4.7,
// §4.8) and writes it as the HTTP response.
func writeError(c *gin.Context, err error) {
	resp := ipx.ErrorResponse(err)
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Header("Content-Security-Policy", "default-src 'none'")
	c.String(resp.StatusCode, resp.StringBody)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
