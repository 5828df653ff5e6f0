package model

// ConversationParticipant 会话成员（会话与用户的关联表）。
type ConversationParticipant struct {
	Id             int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ConversationID string `gorm:"column:conversation_id;type:varchar(36);not null;uniqueIndex:uidx_conv_user;comment:会话id"`
	UserUuid       string `gorm:"column:user_id;type:char(36);not null;index;uniqueIndex:uidx_conv_user;comment:用户uuid"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }
