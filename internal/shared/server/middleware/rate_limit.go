package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-analyzer/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"

	RateLimitGroupAuth    = "AUTH"
	RateLimitGroupAnalyze = "ANALYZE"
	RateLimitGroupMarket  = "MARKET"
	RateLimitGroupExport  = "EXPORT"

	// limiterIdleTTL is how long a bucket may sit unused before it is swept.
	limiterIdleTTL = 15 * time.Minute
	// limiterSweepEvery sweeps idle buckets once per this many calls.
	limiterSweepEvery = 1024
)

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig maps request groups to rules. Groups without a rule are unlimited.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one limiter per principal and group in process memory.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	now     func() time.Time
	calls   int
}

type limiterEntry struct {
	lim      *rate.Limiter
	rule     RateLimitRule
	lastSeen time.Time
}

// NewRateLimiter builds an in-process limiter. A nil clock uses time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		now:     now,
	}
}

// Allow takes one token for key. When the bucket is empty it reports how long
// until the next token is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	l.calls++
	if l.calls%limiterSweepEvery == 0 {
		l.sweep(now)
	}
	entry, ok := l.entries[key]
	if !ok || entry.rule != rule {
		entry = &limiterEntry{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst), rule: rule}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	r := entry.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Duration(float64(time.Second) / rule.Rate)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len reports how many buckets are currently tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep drops buckets idle for longer than the idle TTL.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.now())
}

func (l *RateLimiter) sweep(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.entries, key)
		}
	}
}

// RateLimit limits requests per authenticated user, falling back to the client
// IP on public routes.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}

		principal := "user:" + strings.TrimSpace(UserIDFromContext(c))
		if principal == "user:" {
			principal = "ip:" + c.ClientIP()
		}
		allowed, wait := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}

		waitMs := max(wait.Milliseconds(), 1)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(waitMs)/1000))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"group":        group,
			"retryAfterMs": waitMs,
		})
	}
}

// routeGroups assigns limit groups by method and route template.
var routeGroups = map[string]string{
	"POST /api/token":                      RateLimitGroupAuth,
	"POST /api/users/register":             RateLimitGroupAuth,
	"GET /api/auth/google/start":           RateLimitGroupAuth,
	"GET /api/auth/google/callback":        RateLimitGroupAuth,
	"POST /api/resume/analyze-resume/":     RateLimitGroupAnalyze,
	"POST /api/resume/resumes/:id/analyze": RateLimitGroupAnalyze,
	"PUT /api/resume/analyses/:id":         RateLimitGroupAnalyze,
	"POST /api/resume/generate-report/":    RateLimitGroupAnalyze,
	"GET /api/resume/analyses/:id/report":  RateLimitGroupAnalyze,
	"POST /api/market/competitiveness":     RateLimitGroupMarket,
	"POST /api/market/analyze":             RateLimitGroupMarket,
	"POST /api/privacy/export-data":        RateLimitGroupExport,
	"POST /api/privacy/delete-data":        RateLimitGroupExport,
	"GET /api/privacy/download-export/:id": RateLimitGroupExport,
}

// DefaultRateLimitGroup buckets credential and heavy endpoints separately from
// ordinary reads.
func DefaultRateLimitGroup(c *gin.Context) string {
	if group, ok := routeGroups[c.Request.Method+" "+c.FullPath()]; ok {
		return group
	}
	return defaultRateLimitGroup
}

// DefaultRateLimitRules returns the limits used by the API server.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		defaultRateLimitGroup: {Rate: 10, Burst: 40},
		RateLimitGroupAuth:    {Rate: 0.5, Burst: 10},
		RateLimitGroupAnalyze: {Rate: 0.2, Burst: 5},
		RateLimitGroupMarket:  {Rate: 1, Burst: 10},
		RateLimitGroupExport:  {Rate: 0.05, Burst: 3},
	}
}
