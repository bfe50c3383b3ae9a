package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/grpc/healthcheck"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// App serve命令运行所需的组件
type App struct {
	Engine *gin.Engine
	Health *healthcheck.Server
}

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := database.Close(db); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("关闭数据库连接失败")
		}
	}, nil
}

// provideRedis Redis连接
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher 借阅事件发布者，mq.enabled=false时为空实现
func providePublisher(cfg *config.Config) (messaging.EventPublisher, func(), error) {
	pub, err := messaging.NewEventPublisher(cfg)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() { _ = pub.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideBookCache cache.enabled=false时不缓存
func provideBookCache(cfg *config.Config, client *goredis.Client) appbook.Cache {
	if !cfg.Cache.Enabled {
		return redis.NopCache{}
	}
	return redis.NewCacheStore(client, "book", cfg.Cache.BookTTL)
}

func provideUserCache(cfg *config.Config, client *goredis.Client) appuser.Cache {
	if !cfg.Cache.Enabled {
		return redis.NopCache{}
	}
	return redis.NewCacheStore(client, "user", cfg.Cache.UserTTL)
}

// provideBorrowBookCache 借还书后删除的是同一份图书详情缓存
func provideBorrowBookCache(cache appbook.Cache) appborrow.BookCache {
	return cache
}

// provideHealthServer 探测数据库和Redis
func provideHealthServer(db *gorm.DB, client *goredis.Client) *healthcheck.Server {
	return healthcheck.NewServer(map[string]healthcheck.Probe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	})
}

const healthCheckInterval = 15 * time.Second
