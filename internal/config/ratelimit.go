package config

import "time"

// RateLimitConfig configures the Redis token bucket. Every key starts with
// Capacity tokens and regains RefillTokens each RefillInterval.
type RateLimitConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Capacity       int           `koanf:"capacity"`
	RefillTokens   int           `koanf:"refill_tokens"`
	RefillInterval time.Duration `koanf:"refill_interval"`
	TTL            time.Duration `koanf:"ttl"`
	KeyStrategy    string        `koanf:"key_strategy" validate:"omitempty,oneof=ip route ip_route"`
	Prefix         string        `koanf:"prefix"`
	Debug          bool          `koanf:"debug"`
}

func defaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	minTTL := 5 * r.RefillInterval
	if r.TTL < minTTL {
		r.TTL = minTTL
	}
	if r.Prefix == "" {
		r.Prefix = "rl"
	}
}
