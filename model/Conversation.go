package model

import "time"

// Conversation 会话。直聊（is_group=false）固定两个参与者。
// 注意：直聊去重没有库级唯一约束可依赖，靠存储过程/服务层兜底（见 conversation_repository）。
type Conversation struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey;comment:会话id"`
	IsGroup   bool      `gorm:"column:is_group;not null;default:false;comment:是否群聊"`
	CreatedBy string    `gorm:"column:created_by;type:char(36);comment:创建者uuid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Conversation) TableName() string { return "conversations" }
