package repository

import (
	"context"
	"encoding/json"
	"errors"

	"CommunityServer/apps/social/mq"
	rediskey "CommunityServer/consts/redisKey"
	"CommunityServer/model"
	"CommunityServer/pkg/async"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// profileEmptyPlaceholder 空值占位，防止不存在的用户反复打穿到 MySQL。
const profileEmptyPlaceholder = "__EMPTY__"

// profileL1Size 本地 LRU 容量。资料是读多写无（本服务只读），本地缓存命中率很高。
const profileL1Size = 4096

// profileRepositoryImpl 用户资料数据访问层实现（只读）。
// 两级缓存：进程内 LRU -> Redis -> MySQL；Redis 不可用时直接回源。
type profileRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
	l1          *expirable.LRU[string, *model.Profile]
}

// NewProfileRepository 创建用户资料仓储实例
func NewProfileRepository(db *gorm.DB, redisClient *redis.Client) IProfileRepository {
	return &profileRepositoryImpl{
		db:          db,
		redisClient: redisClient,
		// L1 的 TTL 取 L2 的零头，保证资料子系统改名后最迟几分钟收敛
		l1: expirable.NewLRU[string, *model.Profile](profileL1Size, nil, rediskey.ProfileEmptyTTL),
	}
}

// GetByUUID 获取用户资料。用户不存在返回 (nil, nil)。
func (r *profileRepositoryImpl) GetByUUID(ctx context.Context, uuid string) (*model.Profile, error) {
	if uuid == "" {
		return nil, nil
	}

	// 1. 进程内 LRU（nil 值表示缓存过"不存在"）
	if p, ok := r.l1.Get(uuid); ok {
		return p, nil
	}

	// 2. Redis
	if r.redisClient != nil {
		cacheKey := rediskey.ProfileKey(uuid)
		val, err := r.redisClient.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			// 概率续期：1% 的概率在读取时顺便续期，避免热点 key 集中过期
			if getRandomBool(0.01) {
				_ = r.redisClient.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.ProfileTTL)).Err()
			}
			if val == profileEmptyPlaceholder {
				r.l1.Add(uuid, nil)
				return nil, nil
			}
			var p model.Profile
			if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil {
				r.l1.Add(uuid, &p)
				return &p, nil
			}
			// 缓存内容坏了，删掉回源
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		case err == redis.Nil:
			// 未命中，往下走
		case isRedisWrongType(err):
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		default:
			// Redis 挂了，记录日志，降级去查 DB
			LogRedisError(ctx, err)
		}
	}

	// 3. 回源 MySQL
	var p model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", uuid).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.l1.Add(uuid, nil)
			r.rebuildCacheAsync(ctx, uuid, nil)
			return nil, nil
		}
		return nil, WrapDBError(err)
	}

	r.l1.Add(uuid, &p)
	r.rebuildCacheAsync(ctx, uuid, &p)
	return &p, nil
}

// rebuildCacheAsync 异步回填 Redis 资料缓存（p 为 nil 时写空值占位）。
func (r *profileRepositoryImpl) rebuildCacheAsync(ctx context.Context, uuid string, p *model.Profile) {
	if r.redisClient == nil {
		return
	}

	cacheKey := rediskey.ProfileKey(uuid)
	async.RunSafe(ctx, func(runCtx context.Context) {
		var payload string
		ttl := getRandomExpireTime(rediskey.ProfileTTL)
		if p == nil {
			payload = profileEmptyPlaceholder
			ttl = rediskey.ProfileEmptyTTL
		} else {
			data, err := json.Marshal(p)
			if err != nil {
				return
			}
			payload = string(data)
		}

		if err := r.redisClient.Set(runCtx, cacheKey, payload, ttl).Err(); err != nil && err != redis.Nil {
			task := mq.BuildSetTask(cacheKey, payload, ttl).WithSource("profile_repo.rebuild")
			LogAndRetryRedisError(runCtx, task, err)
		}
	}, 0)
}
