package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// ProfileTTL 用户资料缓存 TTL
	ProfileTTL = 1 * time.Hour
	// ProfileEmptyTTL 用户资料空值缓存 TTL
	ProfileEmptyTTL = 5 * time.Minute

	// RequestUnreadTTL 好友申请未读计数 TTL
	RequestUnreadTTL = 7 * 24 * time.Hour
)

// ==================== Key 构造函数 ====================

// ProfileKey 生成用户资料缓存 Key: social:profile:{uuid}
func ProfileKey(uuid string) string {
	return fmt.Sprintf("social:profile:%s", uuid)
}

// RequestUnreadKey 生成好友申请未读计数 Key: social:notify:request:unread:{uuid}
func RequestUnreadKey(userUUID string) string {
	return fmt.Sprintf("social:notify:request:unread:%s", userUUID)
}

// UserRateLimitKey 生成用户限流 Key: social:rate:limit:user:{user_uuid}
func UserRateLimitKey(userUUID string) string {
	return fmt.Sprintf("social:rate:limit:user:%s", userUUID)
}

// IPRateLimitKey 生成 IP 限流 Key: social:rate:limit:ip:{ip}
func IPRateLimitKey(ip string) string {
	return fmt.Sprintf("social:rate:limit:ip:%s", ip)
}
