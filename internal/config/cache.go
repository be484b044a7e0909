package config

import (
	"strings"
	"time"
)

// CacheConfig controls the response cache in front of the public listing
// endpoints.  Listings change at most every couple of hours, so the default
// TTL is a few minutes rather than seconds.  Caching is off whenever Redis is
// unavailable regardless of Enabled.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-cased methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string // route | route_query | method_route_query
	Prefix       string
	MaxBodyBytes int // larger responses are served but not stored
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      map[string]bool{},
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "pl:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 2<<20),
	}
	for _, m := range strings.Split(envStr("CACHE_METHODS", "GET,HEAD"), ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			cfg.Methods[m] = true
		}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return cfg
}
