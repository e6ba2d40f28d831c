package nextfetch

import (
	"sync/atomic"
	"time"
)

// RateLimiter is a lock-free token bucket backing the stock rate limit
// interceptor.
type RateLimiter struct {
	tokens     int64
	maxTokens  int64
	refillRate time.Duration
	lastRefill int64
}

// NewRateLimiter creates a token bucket holding maxTokens, refilling one
// token per refillRate interval.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     int64(maxTokens),
		maxTokens:  int64(maxTokens),
		refillRate: refillRate,
		lastRefill: time.Now().UnixNano(),
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.refillTokens()
	return rl.consumeToken()
}

// Tokens returns the number of currently available tokens.
func (rl *RateLimiter) Tokens() int {
	rl.refillTokens()
	return int(atomic.LoadInt64(&rl.tokens))
}

func (rl *RateLimiter) refillTokens() {
	now := time.Now().UnixNano()

	for {
		currentTokens := atomic.LoadInt64(&rl.tokens)
		lastRefill := atomic.LoadInt64(&rl.lastRefill)

		elapsed := now - lastRefill
		tokensToAdd := int64(0)
		if rl.refillRate > 0 {
			tokensToAdd = elapsed / int64(rl.refillRate)
		}
		if tokensToAdd == 0 {
			break
		}

		newTokens := currentTokens + tokensToAdd
		if newTokens > rl.maxTokens {
			newTokens = rl.maxTokens
		}
		newLastRefill := lastRefill + (tokensToAdd * int64(rl.refillRate))

		if !atomic.CompareAndSwapInt64(&rl.lastRefill, lastRefill, newLastRefill) {
			continue
		}
		atomic.StoreInt64(&rl.tokens, newTokens)
		break
	}
}

func (rl *RateLimiter) consumeToken() bool {
	for {
		current := atomic.LoadInt64(&rl.tokens)
		if current <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&rl.tokens, current, current-1) {
			return true
		}
	}
}
