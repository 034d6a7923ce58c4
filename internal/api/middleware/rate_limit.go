package middleware

import (
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/pkg/response"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 基于 Redis 计数的简单限流，窗口内超额直接拒绝。
// 已登录用户按 user_id 计数，匿名请求退化为按客户端 IP。
func RateLimitMiddleware(limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := consts.RateLimitKey
		if userID := c.GetUint64("user_id"); userID != 0 {
			key += strconv.FormatUint(userID, 10)
		} else {
			key += c.ClientIP()
		}

		count, err := redis.IncrWithExpire(c.Request.Context(), key, window)
		if err != nil {
			// 限流组件故障时放行，不影响主链路
			c.Next()
			return
		}
		if count > limit {
			response.Fail(c, 429, "请求过于频繁，请稍后重试")
			c.Abort()
			return
		}
		c.Next()
	}
}
