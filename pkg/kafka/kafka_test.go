package kafka

import (
	"testing"
	"time"

	"CommunityServer/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapterLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	NewZapLoggerAdapter(l).Printf("fetching %d bytes", 1024)
	NewZapErrorLoggerAdapter(l).Printf("broker %s unreachable", "127.0.0.1:9092")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "fetching 1024 bytes", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "broker 127.0.0.1:9092 unreachable", entries[1].Message)
}

func TestProducerUsesZapLogger(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:9092"}, "social.redis.retry")
	defer p.Close()

	assert.NotNil(t, p.writer.Logger)
	assert.NotNil(t, p.writer.ErrorLogger)
}

func TestReaderUsesZapLogger(t *testing.T) {
	cfg := config.DefaultKafkaConfig()
	cfg.ConsumerConfig.MaxWait = 100 * time.Millisecond
	r := NewReader(cfg)
	defer r.Close()

	assert.NotNil(t, r.Config().Logger)
	assert.NotNil(t, r.Config().ErrorLogger)
}
