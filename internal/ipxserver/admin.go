package ipxserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var adminUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// adminCounters tracks the live hit/miss/request counts the dashboard
// streams, guarded by a mutex since requests and websocket ticks run on
// different goroutines.
type adminCounters struct {
	mu           sync.Mutex
	requests     int64
	cacheHits    int64
	cacheMiss    int64
	errors       int64
	logRotations int64
}

func (a *adminCounters) recordRequest(cacheHit bool, isError bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests++
	if isError {
		a.errors++
	}
	if cacheHit {
		a.cacheHits++
	} else {
		a.cacheMiss++
	}
}

// recordLogRotation is invoked via the access-log rotate writer's OnRotate
// hook so the dashboard can surface how often the access log has rolled
// over, independent of request traffic.
func (a *adminCounters) recordLogRotation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logRotations++
}

// adminSnapshot is the JSON frame pushed to each connected dashboard.
type adminSnapshot struct {
	SessionID    string `json:"session_id"`
	Time         string `json:"time"`
	Requests     int64  `json:"requests"`
	CacheHits    int64  `json:"cache_hits"`
	CacheMiss    int64  `json:"cache_miss"`
	Errors       int64  `json:"errors"`
	LogRotations int64  `json:"log_rotations"`
}

func (a *adminCounters) snapshot(sessionID string) adminSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return adminSnapshot{
		SessionID:    sessionID,
		Time:         time.Now().Format(time.RFC3339),
		Requests:     a.requests,
		CacheHits:    a.cacheHits,
		CacheMiss:    a.cacheMiss,
		Errors:       a.errors,
		LogRotations: a.logRotations,
	}
}

// adminWSHandler streams a JSON adminSnapshot every second to connected
// operator dashboards (ipxctl dashboard) until the client disconnects.
func adminWSHandler(counters *adminCounters) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := adminUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		sessionID := uuid.NewString()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for range ticker.C {
			if err := conn.WriteJSON(counters.snapshot(sessionID)); err != nil {
				return
			}
		}
	}
}
