package model

import "time"

// Profile 用户资料（展示属性）。
// 归属认证/资料子系统，本服务只读，不做任何写操作。
type Profile struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey;comment:用户uuid"`
	Username  string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null;comment:用户名"`
	FullName  string    `gorm:"column:full_name;type:varchar(128);comment:姓名"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(255);comment:头像地址"`
	City      string    `gorm:"column:city;type:varchar(64);comment:城市"`
	State     string    `gorm:"column:state;type:varchar(64);comment:省/州"`
	Bio       string    `gorm:"column:bio;type:varchar(500);comment:个人简介"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
