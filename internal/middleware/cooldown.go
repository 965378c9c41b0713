package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"store-service/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CooldownStore interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Remaining(ctx context.Context, key string) (time.Duration, error)
}

// Cooldown allows one request per user and scope every ttl. A nil store or a
// zero ttl disables it. Store errors let the request through.
func Cooldown(store CooldownStore, scope string, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || ttl <= 0 {
			c.Next()
			return
		}
		uid, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}

		key := scope + ":" + uid.String()
		acquired, err := store.TryAcquire(c.Request.Context(), key, ttl)
		if err != nil {
			log.Warn("cooldown check failed", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			wait, _ := store.Remaining(c.Request.Context(), key)
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewRateLimitedError("please wait before retrying"))
			return
		}
		c.Next()
	}
}
