package kafka

import (
	"context"
	"time"

	"CommunityServer/config"
	"CommunityServer/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer Kafka 生产者的薄封装（单 topic）。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建指定 topic 的生产者。
// 说明：RequiredAcks 用 One 而不是 All —— 重试任务丢一条可以接受，延迟更重要。
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			Logger:       NewZapLoggerAdapter(logger.L()),
			ErrorLogger:  NewZapErrorLoggerAdapter(logger.L()),
		},
	}
}

// Send 发送一条消息，key 用于分区路由（同一 key 保序）。
func (p *Producer) Send(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

// Close 关闭生产者。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NewReader 创建消费组 Reader。
func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.RedisRetryTopic,
		GroupID:     cfg.ConsumerConfig.GroupID,
		MinBytes:    cfg.ConsumerConfig.MinBytes,
		MaxBytes:    cfg.ConsumerConfig.MaxBytes,
		MaxWait:     cfg.ConsumerConfig.MaxWait,
		Logger:      NewZapLoggerAdapter(logger.L()),
		ErrorLogger: NewZapErrorLoggerAdapter(logger.L()),
	})
}

// zapLoggerAdapter 把 zap 适配成 kafka-go 的 Logger 接口。
// kafka-go 的普通日志很啰嗦，走 Debug 级别；错误日志走 Error 级别。
type zapLoggerAdapter struct {
	l     *zap.SugaredLogger
	isErr bool
}

// NewZapLoggerAdapter 创建 kafka-go 普通日志适配器。
// l 为 nil 时（logger 尚未初始化）退回 Nop。
func NewZapLoggerAdapter(l *zap.Logger) kafka.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLoggerAdapter{l: l.Sugar()}
}

// NewZapErrorLoggerAdapter 创建 kafka-go 错误日志适配器。
func NewZapErrorLoggerAdapter(l *zap.Logger) kafka.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLoggerAdapter{l: l.Sugar(), isErr: true}
}

func (a *zapLoggerAdapter) Printf(format string, args ...interface{}) {
	if a.isErr {
		a.l.Errorf(format, args...)
		return
	}
	a.l.Debugf(format, args...)
}
