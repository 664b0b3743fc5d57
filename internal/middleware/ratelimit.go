package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	lastSeen    time.Time
	count       int
}

// In-memory store shared by every RateLimiter instance of the process.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	lastPrune       time.Time
	rateLimiterLock sync.Mutex

	// indirection for unit testing
	rateClock clockwork.Clock = clockwork.NewRealClock()
)

// RateLimiter limits the number of requests per client IP.
//
// Behavior:
//   - Allows up to limit requests per window (default window: 1 minute).
//   - A non-positive limit disables limiting.
//   - If the limit is exceeded, returns HTTP 429 Too Many Requests.
func RateLimiter(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		now := rateClock.Now()

		rateLimiterLock.Lock()
		pruneClients(now)
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.windowStart) >= window {
			cl = &client{windowStart: now, count: 0}
			clients[ip] = cl
		}
		cl.count++
		cl.lastSeen = now
		exceeded := cl.count > limit
		rateLimiterLock.Unlock()

		if exceeded {
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}

// pruneClients drops clients idle for a full window, at most once per window.
// Callers hold rateLimiterLock.
func pruneClients(now time.Time) {
	if now.Sub(lastPrune) < window {
		return
	}
	for ip, cl := range clients {
		if now.Sub(cl.lastSeen) >= window {
			delete(clients, ip)
		}
	}
	lastPrune = now
}

// BodyLimit caps the request body at maxBytes. Reads beyond the cap fail, which
// the upload handlers report as 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			AbortWithError(c, http.StatusRequestEntityTooLarge, "upload too large", nil)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func resetRateLimiter() {
	rateLimiterLock.Lock()
	clients = make(map[string]*client)
	lastPrune = time.Time{}
	rateLimiterLock.Unlock()
}
