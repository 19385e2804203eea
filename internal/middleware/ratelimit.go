package middleware

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, exists := l.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(l.rate, l.burst)
		l.limiters.Store(ip, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// DailyQuota caps the total number of summary generations per day,
// since every generation costs provider tokens.
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64) *DailyQuota {
	return &DailyQuota{
		limit:   limit,
		resetAt: nextMidnightUTC(),
	}
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if time.Now().After(q.resetAt) {
		log.Printf("[QUOTA] Daily quota reset. Previous count: %d", q.count)
		q.count = 0
		q.resetAt = nextMidnightUTC()
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// SecondsToReset returns the seconds until the quota resets.
func (q *DailyQuota) SecondsToReset() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(time.Until(q.resetAt).Seconds()) + 1
}

func nextMidnightUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

// RateLimitMiddleware applies two stages of rate limiting to expensive
// routes: the global daily quota first, then the per-IP limiter. Both
// respond 429 with a Retry-After header.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !quota.Allow() {
			log.Printf("[QUOTA] Daily quota exhausted")
			c.Header("Retry-After", strconv.Itoa(quota.SecondsToReset()))
			c.AbortWithStatusJSON(429, gin.H{
				"error": "Daily generation quota reached. Please come back tomorrow.",
				"code":  "QUOTA_EXCEEDED",
			})
			return
		}

		if !ipLimiter.GetLimiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(429, gin.H{
				"error": "Too many requests. Please slow down.",
				"code":  "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
