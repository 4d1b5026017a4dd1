package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/telco360/internal/config"
	"go.uber.org/fx"
)

const keyDatasetReload = "telco360:dataset:reload:%s"

type ReloadParams struct {
	fx.In

	Config config.Config
	Client *redis.Client `optional:"true"`
}

// ReloadLimiter throttles dataset reloads per caller. Without Redis every
// reload is allowed.
type ReloadLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewReloadLimiter(p ReloadParams) *ReloadLimiter {
	perMinute := p.Config.Dashboard.ReloadPerMinute
	if p.Client == nil || perMinute <= 0 {
		return &ReloadLimiter{}
	}
	return &ReloadLimiter{
		bucket: NewTokenBucket(p.Client),
		rate:   float64(perMinute) / 60,
		burst:  perMinute,
	}
}

func (l *ReloadLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *ReloadLimiter) Allow(ctx context.Context, caller string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	caller = strings.TrimSpace(caller)
	if caller == "" {
		caller = "anonymous"
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyDatasetReload, caller), l.rate, l.burst)
}
