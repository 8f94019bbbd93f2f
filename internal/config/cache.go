package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled. Methods lists the HTTP methods whose responses are cached
// (comma separated, e.g. "GET,HEAD"). TTL is the lifetime of an entry.
// KeyStrategy selects which parts of the request build the cache key.
type CacheConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Methods      []string      `koanf:"methods"`
	TTL          time.Duration `koanf:"ttl"`
	KeyStrategy  string        `koanf:"key_strategy" validate:"omitempty,oneof=route route_query method_route method_route_query"`
	Prefix       string        `koanf:"prefix"`
	MaxBodyBytes int           `koanf:"max_body_bytes" validate:"gte=0"`
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      true,
		Methods:      []string{"GET"},
		TTL:          30 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

// Cacheable reports whether responses to method are cached.
func (c CacheConfig) Cacheable(method string) bool {
	for _, m := range c.Methods {
		if m == strings.ToUpper(method) {
			return true
		}
	}
	return false
}

func (c *CacheConfig) normalize() {
	var methods []string
	for _, raw := range c.Methods {
		for _, m := range strings.Split(raw, ",") {
			m = strings.TrimSpace(strings.ToUpper(m))
			if m != "" {
				methods = append(methods, m)
			}
		}
	}
	c.Methods = methods
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
}
