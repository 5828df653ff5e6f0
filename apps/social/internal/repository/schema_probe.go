package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// follows 表的物理形状在不同部署间不一致：同一个"关注"关系，历史上出现过
// 三种列名组合，且没有编译期契约能告诉我们当前库是哪一种。这里维护一个
// 手工固定的候选列表，按出现顺序逐个尝试，以"未知列/缺表"为继续探测的
// 唯一信号。这是兼容垫片，不是通用 schema 发现机制。

// FollowEncoding 关注表的一种候选列编码（关注者列 / 被关注者列）。
type FollowEncoding struct {
	FollowerCol string
	FolloweeCol string
}

// followEncodings 候选编码，按历史部署的出现顺序排列。
var followEncodings = []FollowEncoding{
	{FollowerCol: "follower_id", FolloweeCol: "following_id"},
	{FollowerCol: "user_id", FolloweeCol: "target_user_id"},
	{FollowerCol: "user_id", FolloweeCol: "followed_user_id"},
}

const followTable = "follows"

// followProbe 一次逻辑操作范围内的编码探测器。
// resolved 记录第一个未报 schema 错误的候选下标；同一实例的后续操作直接使用
// 该候选，保证一次操作内（如"同意申请 -> 写关注边"）不会混用编码。
// 实例不跨操作复用：每次操作新建，重新探测，换取对配置漂移的容忍。
type followProbe struct {
	db       *gorm.DB
	resolved int
}

func newFollowProbe(db *gorm.DB) *followProbe {
	return &followProbe{db: db, resolved: -1}
}

// try 在候选编码上执行 op，返回第一个非 schema 错误的结果。
// 语义要点：op 正常返回（哪怕什么都没查到）就是权威结果，不再尝试后续候选；
// 只有"未知列/缺表"才继续，其他错误立即中止并上抛。
// 所有候选都报 schema 错误时返回 ErrNoLiveEncoding。
func (p *followProbe) try(op func(enc FollowEncoding) error) error {
	if p.resolved >= 0 {
		return op(followEncodings[p.resolved])
	}

	for i, enc := range followEncodings {
		err := op(enc)
		if err == nil {
			p.resolved = i
			return nil
		}
		if isSchemaMismatch(err) {
			continue
		}
		return err
	}

	return ErrNoLiveEncoding
}

// Exists 查询关注边 follower -> followee 是否存在。
func (p *followProbe) Exists(ctx context.Context, followerUUID, followeeUUID string) (bool, error) {
	var found bool
	err := p.try(func(enc FollowEncoding) error {
		var cnt int64
		if err := p.db.WithContext(ctx).
			Table(followTable).
			Where(fmt.Sprintf("%s = ? AND %s = ?", enc.FollowerCol, enc.FolloweeCol), followerUUID, followeeUUID).
			Count(&cnt).Error; err != nil {
			return err
		}
		found = cnt > 0
		return nil
	})
	return found, err
}

// Insert 写入关注边 follower -> followee。
// 唯一键冲突视为已存在，按成功处理（有序对至多一条边的不变量由库级约束兜底）。
func (p *followProbe) Insert(ctx context.Context, followerUUID, followeeUUID string) error {
	return p.try(func(enc FollowEncoding) error {
		err := p.db.WithContext(ctx).Exec(
			fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)", followTable, enc.FollowerCol, enc.FolloweeCol),
			followerUUID, followeeUUID,
		).Error
		if isDuplicateKey(err) {
			return nil
		}
		return err
	})
}

// Delete 删除关注边 follower -> followee。删除不存在的行不算错误（天然幂等）。
func (p *followProbe) Delete(ctx context.Context, followerUUID, followeeUUID string) error {
	return p.try(func(enc FollowEncoding) error {
		return p.db.WithContext(ctx).Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", followTable, enc.FollowerCol, enc.FolloweeCol),
			followerUUID, followeeUUID,
		).Error
	})
}
