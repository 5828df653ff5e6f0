package utils

// MaskUUID 对UUID进行脱敏处理
// 示例: 550e8400-e29b-41d4-a716-446655440000 -> 550e****-****-****-****-****440000
func MaskUUID(uuid string) string {
	if len(uuid) < 36 {
		if len(uuid) < 8 {
			return uuid
		}
		return uuid[:4] + "****" + uuid[len(uuid)-4:]
	}
	return uuid[:4] + "****-" + uuid[9:13] + "-****-" + uuid[19:23] + "-****-" + uuid[len(uuid)-6:]
}
