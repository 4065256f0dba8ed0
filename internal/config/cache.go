package config

import (
	"strings"
	"time"
)

// CacheConfig parameterizes the Redis response cache middleware. Only the
// public package catalog is cache-friendly in this app, so the default
// TTL is short.
type CacheConfig struct {
	Enabled      bool
	Prefix       string
	KeyStrategy  string // route | method_route | route_query | method_route_query
	TTL          time.Duration
	MaxBodyBytes int
	Methods      map[string]bool
}

// LoadCacheConfig reads the CACHE_* environment variables.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		TTL:          envDur("CACHE_TTL", time.Minute),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
	}
}

func parseMethods(s string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range strings.Split(s, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			out[m] = true
		}
	}
	return out
}
