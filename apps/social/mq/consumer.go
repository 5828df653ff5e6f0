package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"CommunityServer/config"
	pkgkafka "CommunityServer/pkg/kafka"
	"CommunityServer/pkg/logger"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// RedisRetryConsumer 消费重试主题，把失败的 Redis 写操作回放到 Redis。
// 回放仍失败时：未达 MaxRetries 则退避后重新入队，否则记错误日志放弃。
type RedisRetryConsumer struct {
	reader      *kafkago.Reader
	redisClient *redis.Client
	producer    *pkgkafka.Producer
	backoff     time.Duration
}

// NewRedisRetryConsumer 创建重试消费者。
func NewRedisRetryConsumer(cfg config.KafkaConfig, redisClient *redis.Client, producer *pkgkafka.Producer) *RedisRetryConsumer {
	backoff := cfg.ConsumerConfig.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &RedisRetryConsumer{
		reader:      pkgkafka.NewReader(cfg),
		redisClient: redisClient,
		producer:    producer,
		backoff:     backoff,
	}
}

// Start 阻塞消费，直到 ctx 取消或 Reader 关闭。
func (c *RedisRetryConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		var task RedisTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			// 消息体坏了没法重试，记日志后跳过
			logger.Error(ctx, "Redis 重试任务反序列化失败",
				logger.ErrorField("error", err),
			)
			continue
		}

		c.handle(ctx, task)
	}
}

// Close 关闭 Reader。
func (c *RedisRetryConsumer) Close() error {
	return c.reader.Close()
}

// handle 回放单个任务。
func (c *RedisRetryConsumer) handle(ctx context.Context, task RedisTask) {
	err := c.execute(ctx, task)
	if err == nil || err == redis.Nil {
		return
	}

	task.RetryCount++
	if task.RetryCount >= task.MaxRetries {
		logger.Error(ctx, "Redis 重试任务已达最大重试次数，放弃",
			logger.ErrorField("error", err),
			logger.String("command", task.Command),
			logger.String("trace_id", task.TraceID),
			logger.String("source", task.Source),
		)
		return
	}

	// 简单退避后重新入队，避免 Redis 故障期间空转
	time.Sleep(c.backoff)
	if sendErr := SendRedisTask(ctx, task); sendErr != nil {
		logger.Error(ctx, "Redis 重试任务重新入队失败，放弃",
			logger.ErrorField("error", sendErr),
			logger.String("command", task.Command),
		)
	}
}

// execute 按任务类型回放 Redis 命令。
func (c *RedisRetryConsumer) execute(ctx context.Context, task RedisTask) error {
	switch task.Type {
	case CmdSimple:
		args := make([]interface{}, 0, len(task.Args)+1)
		args = append(args, task.Command)
		args = append(args, task.Args...)
		return c.redisClient.Do(ctx, args...).Err()

	case CmdPipeline:
		pipe := c.redisClient.Pipeline()
		for _, cmd := range task.PipelineCmds {
			args := make([]interface{}, 0, len(cmd.Args)+1)
			args = append(args, cmd.Command)
			args = append(args, cmd.Args...)
			pipe.Do(ctx, args...)
		}
		_, err := pipe.Exec(ctx)
		return err

	case CmdLua:
		return redis.NewScript(task.LuaScript).
			Run(ctx, c.redisClient, task.LuaKeys, task.LuaArgs...).Err()

	default:
		logger.Warn(ctx, "未知的 Redis 重试任务类型",
			logger.String("type", string(task.Type)),
		)
		return nil
	}
}
