package snowflake

import (
	"CommunityServer/config"

	"github.com/bwmarrin/snowflake"
)

var global *snowflake.Node

// Node 返回全局雪花节点（未初始化时为 nil）。
func Node() *snowflake.Node { return global }

// ReplaceGlobal 设置全局雪花节点，需在进程启动时调用一次。
func ReplaceGlobal(n *snowflake.Node) { global = n }

// Build 根据配置创建雪花节点。
func Build(cfg config.SnowflakeConfig) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}

// NextID 生成下一个 ID 的字符串形式（会话 ID 使用）。
// 未初始化时返回空串，调用方需自行兜底。
func NextID() string {
	if global == nil {
		return ""
	}
	return global.Generate().String()
}
