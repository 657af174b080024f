// Package ratelimit throttles API requests per client and route with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultBucketTTL is how long an unused bucket is kept before it is swept
const DefaultBucketTTL = time.Hour

// bucket holds tokens for one client on one route. Tokens refill
// continuously at rate per second up to capacity.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	updated  time.Time
	lastSeen time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		updated:  now,
		lastSeen: now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.updated = now
}

// take consumes a token if one is available and reports what is left and
// when the bucket will be full again
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time) {
	b.refill(now)
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}
	full = now
	if missing := b.capacity - b.tokens; missing > 0 && b.rate > 0 {
		full = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	}
	return ok, int(b.tokens), full
}

// nextToken is how long until one token is available
func (b *bucket) nextToken() time.Duration {
	if b.tokens >= 1 || b.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info describes the limit a request was checked against
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	BucketTTL       time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter keeps one bucket per client and route. Requests matching an
// EndpointConfig share the bucket of its pattern, so every session of a
// client draws on the same export or edit budget. Other requests share a
// per-method default bucket.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests a minute
// per client.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.BucketTTL <= 0 {
		config.BucketTTL = DefaultBucketTTL
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepEvery(config.CleanupInterval)
	}
	return l
}

// Allow checks a request from clientID for path and method and consumes a
// token when it is allowed.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	route := method + " *"
	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	} else {
		route = method + " " + endpoint.Path
	}
	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	b := l.bucketLocked(clientID+"|"+route, *endpoint, now)
	allowed, remaining, full := b.take(now)
	var retryAfter time.Duration
	if !allowed {
		retryAfter = b.nextToken()
	}
	l.mu.Unlock()

	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpoint.Limit,
		Remaining:  remaining,
		ResetTime:  full,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucketLocked(key string, endpoint EndpointConfig, now time.Time) *bucket {
	if b, ok := l.buckets[key]; ok {
		return b
	}
	window := endpoint.Window
	if window <= 0 {
		window = time.Minute
	}
	capacity := endpoint.Burst
	if capacity <= 0 {
		capacity = endpoint.Limit
	}
	b := newBucket(capacity, float64(endpoint.Limit)/window.Seconds(), now)
	l.buckets[key] = b
	return b
}

// Len returns the number of live buckets
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets not used within the TTL and returns how many it dropped
func (l *Limiter) sweep() int {
	cutoff := l.now().Add(-l.config.BucketTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	dropped := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			dropped++
		}
	}
	return dropped
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
