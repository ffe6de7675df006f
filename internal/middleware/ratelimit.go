package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"linkwrap-platform/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimit 按客户端 IP 限流. 有 Redis 时使用固定窗口计数, 多实例共享;
// 否则退化为进程内令牌桶. Redis 故障时放行
func RateLimit(redisClient *redis.Client, limitConfig *config.Limit) gin.HandlerFunc {
	if !limitConfig.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	window := limitConfig.Window()
	if window <= 0 {
		window = time.Hour
	}
	requests := limitConfig.Requests
	if requests <= 0 {
		requests = 50
	}

	local := newIPLimiter(rate.Every(window/time.Duration(requests)), int(requests))

	return func(c *gin.Context) {
		// 跳过特定路径
		for _, path := range limitConfig.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		ip := c.ClientIP()
		allowed, retryAfter := true, time.Duration(0)
		if redisClient != nil {
			var err error
			allowed, retryAfter, err = allowRemote(c.Request.Context(), redisClient, ip, requests, window)
			if err != nil {
				zap.S().Warnf("限流计数失败, 本次放行: %v", err)
				allowed = true
			}
		} else {
			allowed, retryAfter = local.allow(ip)
		}

		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			c.Header("Retry-After", strconv.Itoa(max(1, seconds)))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "请求过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func allowRemote(ctx context.Context, rdb *redis.Client, ip string, limit int64, window time.Duration) (bool, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	bucket := time.Now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, ip, bucket)

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return true, 0, err
		}
	}
	if count > limit {
		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// ipLimiter 每个 IP 一个令牌桶, 定期清理长时间未出现的 IP
type ipLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	lastGC   time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limit:    limit,
		burst:    burst,
		visitors: make(map[string]*visitor),
		lastGC:   time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > 10*time.Minute {
		for k, v := range l.visitors {
			// 超过补满整个桶的时间未出现, 删除后重建等价
			if now.Sub(v.lastSeen) > time.Duration(float64(l.burst)/float64(l.limit)*float64(time.Second)) {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Hour
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}
