package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// 未配置dial_timeout时启动探测使用的超时
const defaultPingTimeout = 3 * time.Second

// NewClient 按redis配置建立连接，启动时PING一次，不可达直接失败
func NewClient(cfg *config.Config) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(clientOptions(rc))

	timeout := rc.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "无法连接Redis "+rc.Addr())
	}

	log := logger.Get()
	log.Info().
		Str("addr", rc.Addr()).
		Int("db", rc.DB).
		Int("pool_size", rc.PoolSize).
		Msg("Redis已连接")
	return client, nil
}

// clientOptions 零值字段交给go-redis使用默认值
func clientOptions(rc config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	}
}
