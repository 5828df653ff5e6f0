package dto

// ==================== 资料卡相关 DTO ====================

// GetProfileCardRequest 获取用户资料卡请求 DTO
type GetProfileCardRequest struct {
	TargetUUID string `form:"targetUuid" json:"targetUuid" binding:"required,max=64"` // 目标用户UUID
}

// ProfileCard 用户资料卡 DTO（资料 + 访问者视角的关系状态）
type ProfileCard struct {
	UUID           string `json:"uuid"`           // 用户UUID
	Username       string `json:"username"`       // 用户名
	FullName       string `json:"fullName"`       // 姓名
	AvatarURL      string `json:"avatarUrl"`      // 头像地址
	City           string `json:"city"`           // 城市
	State          string `json:"state"`          // 省/州
	Bio            string `json:"bio"`            // 个人简介
	RelationStatus string `json:"relationStatus"` // 访问者与该用户的关系状态
}
