package mq

import (
	"context"
	"encoding/json"
	"errors"

	"CommunityServer/pkg/kafka"
)

var globalProducer *kafka.Producer

// ErrProducerNotReady 表示 Kafka 生产者尚未初始化（Redis 降级模式下不启动）。
var ErrProducerNotReady = errors.New("kafka producer not initialized")

// SetGlobalProducer 设置全局生产者，需在进程启动时调用一次。
func SetGlobalProducer(p *kafka.Producer) { globalProducer = p }

// SendRedisTask 把 Redis 重试任务序列化后发到重试主题。
// key 用 user_uuid，保证同一用户的任务落到同一分区（回放保序）。
func SendRedisTask(ctx context.Context, task RedisTask) error {
	if globalProducer == nil {
		return ErrProducerNotReady
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return globalProducer.Send(ctx, []byte(task.UserUUID), payload)
}
