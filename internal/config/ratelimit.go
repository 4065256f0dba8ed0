package config

import "time"

// RateLimitConfig parameterizes the Redis token bucket middleware.
type RateLimitConfig struct {
	Enabled        bool
	Prefix         string
	KeyStrategy    string // ip | user | route | ip_user | ip_route | user_route | ip_user_route
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

// LoadRateLimitConfig reads the RATE_LIMIT_* environment variables. The
// defaults allow a short burst per staff terminal without throttling the
// tracking board's polling. The default key strategy has no user
// dimension: the limiter is mounted in front of authentication, so the
// user-aware strategies only make sense on middleware chains that run
// after JWTAuth.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 60),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Minute),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
	}
}
