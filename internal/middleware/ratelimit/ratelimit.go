package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"inventory/internal/cache"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute.
	Burst int
	// MaxClients bounds how many client buckets are kept.
	MaxClients int
	// IdleTTL drops a client's bucket after this long without requests.
	IdleTTL time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		MaxClients:        10000,
		IdleTTL:           10 * time.Minute,
	}
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	clients *cache.LRUCache[*rate.Limiter]
	manager *cache.Manager
	limit   rate.Limit
	burst   int
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.MaxClients <= 0 {
		config.MaxClients = def.MaxClients
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = def.IdleTTL
	}

	clients := cache.NewLRUCache[*rate.Limiter](config.MaxClients, config.IdleTTL)
	manager := cache.NewManager()
	manager.Register(clients)
	manager.StartCleanup(config.IdleTTL)

	return &Limiter{
		clients: clients,
		manager: manager,
		limit:   rate.Limit(float64(config.RequestsPerMinute) / 60),
		burst:   config.Burst,
	}
}

func (rl *Limiter) bucket(key string) *rate.Limiter {
	l, _ := rl.clients.GetOrCreate(key, func() *rate.Limiter {
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	return l
}

// Allow checks if a request from the given key should be allowed
func (rl *Limiter) Allow(key string) bool {
	return rl.bucket(key).Allow()
}

// RetryAfter estimates how long key has to wait for its next token.
func (rl *Limiter) RetryAfter(key string) time.Duration {
	r := rl.bucket(key).Reserve()
	defer r.Cancel()
	return r.Delay()
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	return rl.clients.Size()
}

// Stop shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	rl.manager.Stop()
}

// Middleware limits requests whose method is in methods, or all requests when
// methods is empty. onLimit renders the rejection; nil sends a plain 429.
func (rl *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request), methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(limited) > 0 && !limited[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			key := extractKey(r)
			if !rl.Allow(key) {
				secs := int(math.Ceil(rl.RetryAfter(key).Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
