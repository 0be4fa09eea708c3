package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

// IPHasher hashes client addresses with a salt so they are never stored
// in the clear. The same address always gives the same hash for one salt.
type IPHasher struct {
	salt string
}

func NewIPHasher(salt string) IPHasher {
	return IPHasher{salt: salt}
}

func (h IPHasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

type VisitRecorder interface {
	RecordVisit(ctx context.Context, v store.VisitorMetric) error
}

var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/api/", "/sections/", "/healthz",
}

// VisitorTracker records page views in the background.
type VisitorTracker struct {
	rec    VisitRecorder
	hasher IPHasher
	log    *logger.Logger
	wg     sync.WaitGroup
}

func NewVisitorTracker(rec VisitRecorder, hasher IPHasher, log *logger.Logger) *VisitorTracker {
	return &VisitorTracker{rec: rec, hasher: hasher, log: log.With("middleware", "VisitorTracking")}
}

// Handler counts GET page views from visitors who accepted analytics,
// skipping assets, admin and API paths, and anyone sending DNT: 1.
func (t *VisitorTracker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.shouldTrack(c) {
			c.Next()
			return
		}
		v := store.VisitorMetric{
			HashedIP:  t.hasher.Hash(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      c.Request.URL.Path,
			Referrer:  c.GetHeader("Referer"),
			Timestamp: time.Now().UTC(),
		}
		ctx := context.WithoutCancel(c.Request.Context())
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := t.rec.RecordVisit(ctx, v); err != nil {
				t.log.Warn("Error recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

// Wait blocks until in-flight recordings finish.
func (t *VisitorTracker) Wait() {
	t.wg.Wait()
}

func (t *VisitorTracker) shouldTrack(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	path := c.Request.URL.Path
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	if c.GetHeader("DNT") == "1" {
		return false
	}
	return ConsentFrom(c).Allows()
}
