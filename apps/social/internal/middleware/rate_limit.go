package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	rediskey "CommunityServer/consts/redisKey"
	"CommunityServer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// ==================== Redis 令牌桶 Lua 脚本 ====================

// luaTokenBucketRedis Redis 令牌桶 Lua 脚本
// 功能：原子性地更新令牌桶并判断是否允许通过
// 参数：
//
//	KEYS[1]: 限流 key (如: social:rate:limit:ip:{ip})
//	ARGV[1]: 当前时间戳 (毫秒)
//	ARGV[2]: 令牌桶容量
//	ARGV[3]: 每秒产生的令牌数
//	ARGV[4]: 每次请求消耗的令牌数
//
// 返回值：
//   - 1: 允许通过
//   - 0: 不允许通过 (令牌不足)
//
// 注意：时间戳使用毫秒级精度以提高计算准确性
const luaTokenBucketRedis = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3]) -- 每秒产生的令牌数
local requested = tonumber(ARGV[4])

-- 获取当前状态
local info = redis.call('HMGET', key, 'tokens', 'last_time')
local current_tokens = tonumber(info[1])
local last_time = tonumber(info[2])

-- 初始化
if current_tokens == nil then
    current_tokens = capacity
end
if last_time == nil then
    last_time = now
end

-- 计算时间差 (毫秒)
local time_diff = math.max(0, now - last_time)

-- 计算补充令牌: (时间差ms * 速率) / 1000
local new_tokens = math.floor((time_diff * rate) / 1000)

-- 更新令牌数
if new_tokens > 0 then
    current_tokens = math.min(capacity, current_tokens + new_tokens)
    last_time = now -- 只有产生了新令牌才更新时间，防止精度丢失
end

-- 判断是否允许通过
local allowed = 0
if current_tokens >= requested then
    current_tokens = current_tokens - requested
    allowed = 1
end

-- 更新 Redis
redis.call('HMSET', key, 'tokens', current_tokens, 'last_time', last_time)

-- 设置过期时间：桶填满所需时间 * 2，至少 60 秒
local fill_time = math.ceil(capacity / rate)
local ttl = math.max(60, fill_time * 2)
redis.call('EXPIRE', key, ttl)

return allowed
`

// ==================== Redis 限流器 ====================

// RedisRateLimiter 基于 Redis 的令牌桶限流器。
// Redis 不可用时退化为进程级本地令牌桶，而不是完全放行：
// 单实例部署时本地桶与 Redis 桶等价，多实例时至少保住单实例上限。
type RedisRateLimiter struct {
	redisClient *redis.Client
	rate        float64 // 每秒产生的令牌数
	burst       int     // 令牌桶容量
	mu          *sync.RWMutex
	local       *rate.Limiter // Redis 不可用时的本地兜底
}

// NewRedisRateLimiter 创建限流器
// r: 每秒产生的令牌数 (如: 10.0 表示每秒10个令牌)
// burst: 令牌桶容量 (如: 20 表示桶最多20个令牌)
func NewRedisRateLimiter(r float64, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{
		rate:  r,
		burst: burst,
		mu:    &sync.RWMutex{},
		local: rate.NewLimiter(rate.Limit(r), burst),
	}
}

// RedisSetClient 设置 Redis 客户端
// 使用延迟初始化避免循环依赖
func (r *RedisRateLimiter) RedisSetClient(redisClient *redis.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redisClient = redisClient
}

// Allow 检查是否允许请求通过
// key: Redis 限流 key (如: social:rate:limit:ip:{ip})
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	// 使用 RLock 读取 client，减少锁竞争
	r.mu.RLock()
	client := r.redisClient
	r.mu.RUnlock()

	if client == nil {
		// Redis 客户端未初始化，走本地兜底桶
		return r.local.Allow(), nil
	}

	now := time.Now().UnixMilli()

	// 给 Redis 操作加一个独立的短超时（50ms），防止 Redis 响应慢拖死入口
	redisCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	cmd := client.Eval(redisCtx, luaTokenBucketRedis, []string{key}, now, r.burst, r.rate, 1)
	result, err := cmd.Result()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			logger.Warn(ctx, "Redis 限流检查超时，退化为本地限流",
				logger.String("key", key),
				logger.ErrorField("error", err),
			)
			return r.local.Allow(), nil
		}

		logger.Error(ctx, "Redis 限流检查失败，退化为本地限流",
			logger.String("key", key),
			logger.ErrorField("error", err),
		)
		return r.local.Allow(), nil
	}

	// 返回 1 表示允许通过，0 表示被限流
	allowed, ok := result.(int64)
	if !ok {
		logger.Warn(ctx, "Redis 限流返回值类型错误，退化为本地限流",
			logger.String("key", key),
			logger.Any("result", result),
		)
		return r.local.Allow(), nil
	}

	return allowed == 1, nil
}

// ==================== 限流中间件 ====================

// 全局 Redis 限流器实例
var globalRedisLimiter *RedisRateLimiter

// InitRedisRateLimiter 初始化全局 Redis 限流器
// r: 每秒产生的令牌数
// burst: 令牌桶容量
// redisClient: Redis 客户端实例（可以为 nil，此时只用本地桶）
func InitRedisRateLimiter(r float64, burst int, redisClient *redis.Client) {
	globalRedisLimiter = NewRedisRateLimiter(r, burst)
	globalRedisLimiter.RedisSetClient(redisClient)

	logger.Info(context.Background(), "限流器初始化完成",
		logger.Any("rate", r),
		logger.Int("burst", burst),
	)
}

// rejectTooMany 统一的限流拒绝响应
func rejectTooMany(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"code":    10005,
		"message": "请求过于频繁，请稍后再试",
	})
	c.Abort()
}

// IPRateLimitMiddleware 基于 IP 的限流中间件
// 使用示例：
//
//	router.Use(IPRateLimitMiddleware())
func IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := NewContextWithGin(c)

		// 1. 获取客户端 IP
		ip, exists := GetClientIPSafe(c)
		if !exists || ip == "" {
			// 无法获取 IP，放行请求（记录警告）
			logger.Warn(ctx, "无法获取客户端 IP，跳过限流检查",
				logger.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		// 2. 限流器未初始化时放行
		if globalRedisLimiter == nil {
			c.Next()
			return
		}

		// 3. 执行限流检查
		allowed, err := globalRedisLimiter.Allow(ctx, rediskey.IPRateLimitKey(ip))
		if err == nil && !allowed {
			logger.Warn(ctx, "IP 请求被限流",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
			)
			rejectTooMany(c)
			return
		}

		c.Next()
	}
}

// UserRateLimitMiddleware 基于用户 UUID 的限流中间件
// 需要在 JWT 认证中间件之后使用；未认证请求放行（由 IP 限流兜底）
func UserRateLimitMiddleware(r float64, burst int) gin.HandlerFunc {
	// 独立的限流器实例，与全局 IP 限流互不影响
	limiter := NewRedisRateLimiter(r, burst)
	var once sync.Once

	return func(c *gin.Context) {
		ctx := NewContextWithGin(c)

		// 懒加载 Redis Client，只执行一次
		once.Do(func() {
			if globalRedisLimiter != nil {
				globalRedisLimiter.mu.RLock()
				limiter.RedisSetClient(globalRedisLimiter.redisClient)
				globalRedisLimiter.mu.RUnlock()
			}
		})

		userUUID, exists := GetUserUUID(c)
		if !exists || userUUID == "" {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(ctx, rediskey.UserRateLimitKey(userUUID))
		if err == nil && !allowed {
			logger.Warn(ctx, "用户请求被限流",
				logger.String("user_uuid", userUUID),
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
			)
			rejectTooMany(c)
			return
		}

		c.Next()
	}
}
