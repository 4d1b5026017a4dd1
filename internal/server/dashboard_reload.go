package server

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/telco360/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	reloadOutcomeAllowed   = "allowed"
	reloadOutcomeThrottled = "throttled"
)

// ReloadRateLimit caps dataset reloads per client address. Without a
// configured limiter every request passes.
func (s *Server) ReloadRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.reloadLimiter == nil || !s.reloadLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		res, err := s.reloadLimiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("dataset reload rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			logger.FromContext(ctx).Warn("dataset reload rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("retry_after", res.RetryAfter),
			)
			s.obsMetrics.RecordReloadRequest(ctx, reloadOutcomeThrottled)
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(res.RetryAfter.Seconds())))
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordReloadRequest(ctx, reloadOutcomeAllowed)
		c.Next()
	}
}

func retryAfterSeconds(seconds float64) int {
	return max(1, int(math.Ceil(seconds)))
}
