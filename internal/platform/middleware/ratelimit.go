// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/respond"
)

// # Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per client address.
type limiterSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{visitors: make(map[string]*visitor), limit: limit, burst: burst}
}

// reserve takes a token for ip and reports how long the caller must wait
// when none is available.
func (set *limiterSet) reserve(ip string, now time.Time) (bool, time.Duration) {
	set.mu.Lock()
	defer set.mu.Unlock()

	entry, ok := set.visitors[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(set.limit, set.burst)}
		set.visitors[ip] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep forgets the clients idle for longer than ttl.
func (set *limiterSet) sweep(now time.Time, ttl time.Duration) int {
	set.mu.Lock()
	defer set.mu.Unlock()

	removed := 0
	for ip, entry := range set.visitors {
		if now.Sub(entry.lastSeen) > ttl {
			delete(set.visitors, ip)
			removed++
		}
	}
	return removed
}

func (set *limiterSet) janitor(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			set.sweep(now, constants.RateLimitClientTTL)
		}
	}
}

/*
RateLimit applies a per-address token bucket to every request.

Description: Rejected requests get 429 RATE_LIMITED with a Retry-After header
in whole seconds. Idle buckets are swept until ctx is cancelled.
*/
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	return rateLimit(ctx, newLimiterSet(rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst))
}

func rateLimit(ctx context.Context, set *limiterSet) func(http.Handler) http.Handler {
	go set.janitor(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, wait := set.reserve(RealIP(request), time.Now())
			if !allowed {
				seconds := max(int(math.Ceil(wait.Seconds())), 1)
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
