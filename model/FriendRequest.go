package model

import "time"

// FriendRequest 好友申请账本（requester -> receiver 的单次申请）。
// 约束：uniqueIndex:uidx_requester_receiver 确保同一有序对只有一行，作为 Upsert 冲突目标。
// 状态只有 pending/accepted；拒绝不落状态，直接删除 pending 行。
type FriendRequest struct {
	Id            int64      `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	RequesterUuid string     `gorm:"column:requester_id;type:char(36);not null;uniqueIndex:uidx_requester_receiver;comment:申请方uuid"`
	ReceiverUuid  string     `gorm:"column:receiver_id;type:char(36);not null;index;uniqueIndex:uidx_requester_receiver;comment:接收方uuid"`
	Status        int8       `gorm:"column:status;not null;default:0;comment:状态 0.待处理 1.已同意"`
	RespondedAt   *time.Time `gorm:"column:responded_at;comment:处理时间，同意时写入"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (FriendRequest) TableName() string { return "friend_requests" }
