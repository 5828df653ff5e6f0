package repository

import (
	"context"
	"strconv"
	"time"

	"CommunityServer/apps/social/mq"
	"CommunityServer/consts"
	rediskey "CommunityServer/consts/redisKey"
	"CommunityServer/model"
	"CommunityServer/pkg/async"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// requestRepositoryImpl 好友申请账本数据访问层实现
type requestRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewRequestRepository 创建好友申请仓储实例
func NewRequestRepository(db *gorm.DB, redisClient *redis.Client) IRequestRepository {
	return &requestRepositoryImpl{db: db, redisClient: redisClient}
}

// UpsertPending 写入待处理申请（requester -> receiver）。
// 使用 Upsert (ON CONFLICT DO NOTHING) 策略：
//   - 幂等：已有 pending 行时静默成功，UI 拿着过期状态重复提交不会产生脏数据
//   - 原子：冲突目标是 (requester_id, receiver_id) 唯一索引，不存在查-插时间差
func (r *requestRepositoryImpl) UpsertPending(ctx context.Context, requesterUUID, receiverUUID string) (bool, error) {
	req := &model.FriendRequest{
		RequesterUuid: requesterUUID,
		ReceiverUuid:  receiverUUID,
		Status:        consts.RequestStatusPending,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "requester_id"}, {Name: "receiver_id"}},
		DoNothing: true,
	}).Create(req)

	if result.Error != nil {
		return false, WrapDBError(result.Error)
	}

	// 只在真正插入新行时累计未读角标；冲突（已有申请）不重复计数
	created := result.RowsAffected > 0
	if created {
		r.incrUnreadAsync(ctx, receiverUUID)
	}

	return created, nil
}

// HasPending 查询是否存在 requester -> receiver 的待处理申请。
func (r *requestRepositoryImpl) HasPending(ctx context.Context, requesterUUID, receiverUUID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.FriendRequest{}).
		Where("requester_id = ? AND receiver_id = ? AND status = ?",
			requesterUUID, receiverUUID, consts.RequestStatusPending).
		Count(&cnt).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return cnt > 0, nil
}

// DeletePending 删除待处理申请（撤回/拒绝共用）。删除 0 行不算错误。
func (r *requestRepositoryImpl) DeletePending(ctx context.Context, requesterUUID, receiverUUID string) error {
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND receiver_id = ? AND status = ?",
			requesterUUID, receiverUUID, consts.RequestStatusPending).
		Delete(&model.FriendRequest{}).Error
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// Accept 把 requester -> receiver 的待处理申请置为已同意并写入处理时间。
// WHERE 条件限定 pending，重复同意是无变更的空操作。
// 返回是否真的有行被更新（false 表示申请已不存在或已被处理）。
func (r *requestRepositoryImpl) Accept(ctx context.Context, requesterUUID, receiverUUID string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.FriendRequest{}).
		Where("requester_id = ? AND receiver_id = ? AND status = ?",
			requesterUUID, receiverUUID, consts.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":       consts.RequestStatusAccepted,
			"responded_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		return false, WrapDBError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UnreadCount 获取未读申请角标（Redis 不可用时返回 0，角标是尽力而为的展示数据）。
func (r *requestRepositoryImpl) UnreadCount(ctx context.Context, userUUID string) (int64, error) {
	if r.redisClient == nil {
		return 0, nil
	}

	val, err := r.redisClient.Get(ctx, rediskey.RequestUnreadKey(userUUID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		LogRedisError(ctx, err)
		return 0, nil
	}

	cnt, parseErr := strconv.ParseInt(val, 10, 64)
	if parseErr != nil {
		// 计数器被写坏了，清掉重来
		_ = r.redisClient.Del(ctx, rediskey.RequestUnreadKey(userUUID)).Err()
		return 0, nil
	}
	return cnt, nil
}

// MarkRead 清零未读申请角标。
func (r *requestRepositoryImpl) MarkRead(ctx context.Context, userUUID string) error {
	if r.redisClient == nil {
		return nil
	}

	key := rediskey.RequestUnreadKey(userUUID)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		LogAndRetryRedisError(ctx, mq.BuildDelTask(key).WithSource("request_repo.mark_read"), err)
	}
	return nil
}

// incrUnreadAsync 异步累计接收方的未读申请角标。
// 失败走 Kafka 重试队列；角标丢一次计数可以接受，不阻塞主流程。
func (r *requestRepositoryImpl) incrUnreadAsync(ctx context.Context, receiverUUID string) {
	if r.redisClient == nil || receiverUUID == "" {
		return
	}

	key := rediskey.RequestUnreadKey(receiverUUID)
	ttl := rediskey.RequestUnreadTTL

	async.RunSafe(ctx, func(runCtx context.Context) {
		pipe := r.redisClient.Pipeline()
		pipe.Incr(runCtx, key)
		pipe.Expire(runCtx, key, ttl)
		if _, err := pipe.Exec(runCtx); err != nil && err != redis.Nil {
			task := mq.BuildPipelineTask(
				mq.RedisCmd{Command: "incr", Args: []interface{}{key}},
				mq.RedisCmd{Command: "expire", Args: []interface{}{key, int(ttl.Seconds())}},
			).WithSource("request_repo.incr_unread")
			LogAndRetryRedisError(runCtx, task, err)
		}
	}, 0)
}
