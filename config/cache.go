package config

import (
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
	log "github.com/sirupsen/logrus"
)

const DefaultCacheTTL = 300 * time.Second

type CacheConfiguration struct {
	TTL                          time.Duration
	// optional, the cache gets invalidated on every match
	InvalidateSchedule           *cronexpr.Expression
	InvalidateScheduleExpression string
}

func parseCache(cfg Raw) (*CacheConfiguration, error) {
	cache := &CacheConfiguration{TTL: DefaultCacheTTL}

	if cfg == nil {
		return cache, nil
	}

	if cfg.Has("ttl") {
		cache.TTL = cfg.Duration("ttl")
	}

	if cache.TTL <= 0 {
		log.Warnf("Cache TTL must be positive, defaulting to %s", DefaultCacheTTL)
		cache.TTL = DefaultCacheTTL
	}

	if schedule := cfg.String("invalidate_schedule"); schedule != "" {
		expr, err := cronexpr.Parse(schedule)
		if err != nil {
			return nil, fmt.Errorf("cannot parse 'cache.invalidate_schedule' %#q: %s", schedule, err)
		}
		cache.InvalidateSchedule = expr
		cache.InvalidateScheduleExpression = schedule
	}

	return cache, nil
}
