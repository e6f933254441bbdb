package config

import "time"

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        EnvBool("RATE_LIMIT_ENABLED", false),
		Capacity:       EnvIntDefault("RATE_LIMIT_CAPACITY", 20),
		RefillTokens:   EnvIntDefault("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: EnvDuration("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
		TTL:            EnvDuration("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         EnvDefault("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
