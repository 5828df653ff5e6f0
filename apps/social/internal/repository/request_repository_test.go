package repository

import (
	"context"
	"testing"

	rediskey "CommunityServer/consts/redisKey"
	"CommunityServer/consts"
	"CommunityServer/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRequestTestRepo(t *testing.T) (IRequestRepository, *redis.Client) {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.FriendRequest{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewRequestRepository(db, client), client
}

func TestUpsertPendingIsIdempotent(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, _ := openRequestTestRepo(t)

	created, err := repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, created)

	// 拿着过期 UI 状态重复提交：静默成功，不新建行
	created, err = repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, created)

	has, err := repo.HasPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, has)

	// 方向敏感
	has, err = repo.HasPending(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAcceptOnlyTouchesPendingRow(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, _ := openRequestTestRepo(t)

	_, err := repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)

	accepted, err := repo.Accept(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, accepted)

	// 已同意的行不再是 pending
	has, err := repo.HasPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, has)

	// 再次同意改不到行（对方重复点击）
	accepted, err = repo.Accept(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, accepted)

	// 不存在的申请同理
	accepted, err = repo.Accept(ctx, "ghost", "u2")
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestDeletePendingIsIdempotent(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, _ := openRequestTestRepo(t)

	_, err := repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)

	require.NoError(t, repo.DeletePending(ctx, "u1", "u2"))
	require.NoError(t, repo.DeletePending(ctx, "u1", "u2"))

	has, err := repo.HasPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAcceptedRowDoesNotBlockNewRequest(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, _ := openRequestTestRepo(t)

	// 历史已同意的行占着唯一键：再发申请冲突跳过，且该行不会算 pending
	_, err := repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)
	_, err = repo.Accept(ctx, "u1", "u2")
	require.NoError(t, err)

	created, err := repo.UpsertPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, created)

	has, err := repo.HasPending(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestUnreadCount(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, client := openRequestTestRepo(t)

	// 没有计数时返回 0
	cnt, err := repo.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cnt)

	key := rediskey.RequestUnreadKey("u2")
	require.NoError(t, client.Set(ctx, key, "3", rediskey.RequestUnreadTTL).Err())

	cnt, err = repo.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), cnt)

	// 计数器内容被写坏：返回 0 并清掉坏数据
	require.NoError(t, client.Set(ctx, key, "not-a-number", rediskey.RequestUnreadTTL).Err())
	cnt, err = repo.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cnt)

	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestMarkRead(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, client := openRequestTestRepo(t)

	key := rediskey.RequestUnreadKey("u2")
	require.NoError(t, client.Set(ctx, key, "5", rediskey.RequestUnreadTTL).Err())

	require.NoError(t, repo.MarkRead(ctx, "u2"))

	cnt, err := repo.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cnt)
}

func TestRequestStatusConstants(t *testing.T) {
	// 申请状态只有 pending/accepted，拒绝即删行
	assert.Equal(t, int8(0), consts.RequestStatusPending)
	assert.Equal(t, int8(1), consts.RequestStatusAccepted)
}
