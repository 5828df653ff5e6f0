package repository

import (
	"context"

	"gorm.io/gorm"
)

// followRepositoryImpl 关注边数据访问层实现。
// 所有读写都经过 followProbe：每个方法新建探测器，方法内部编码一致，
// 方法之间不缓存（见 schema_probe.go 的说明）。
type followRepositoryImpl struct {
	db *gorm.DB
}

// NewFollowRepository 创建关注边仓储实例
func NewFollowRepository(db *gorm.DB) IFollowRepository {
	return &followRepositoryImpl{db: db}
}

// HasFollow 查询 follower 是否关注了 followee。
// 所有候选编码都探测失败时返回 ErrNoLiveEncoding，由服务层决定降级语义。
func (r *followRepositoryImpl) HasFollow(ctx context.Context, followerUUID, followeeUUID string) (bool, error) {
	probe := newFollowProbe(r.db)
	found, err := probe.Exists(ctx, followerUUID, followeeUUID)
	if err != nil && err != ErrNoLiveEncoding {
		return false, WrapDBError(err)
	}
	return found, err
}

// CreateFollow 写入关注边（幂等：重复写不报错）。
func (r *followRepositoryImpl) CreateFollow(ctx context.Context, followerUUID, followeeUUID string) error {
	probe := newFollowProbe(r.db)
	err := probe.Insert(ctx, followerUUID, followeeUUID)
	if err != nil && err != ErrNoLiveEncoding {
		return WrapDBError(err)
	}
	return err
}

// DeleteFollow 删除关注边（幂等：删除不存在的行不报错）。
func (r *followRepositoryImpl) DeleteFollow(ctx context.Context, followerUUID, followeeUUID string) error {
	probe := newFollowProbe(r.db)
	err := probe.Delete(ctx, followerUUID, followeeUUID)
	if err != nil && err != ErrNoLiveEncoding {
		return WrapDBError(err)
	}
	return err
}
