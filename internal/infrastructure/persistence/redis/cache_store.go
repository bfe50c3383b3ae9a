package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// CacheStore 详情缓存（Cache-Aside）
// 读：先查缓存，未命中查库后回填；写：更新数据库后删除缓存
// Key设计：library:{name}:{id}，值为JSON
type CacheStore struct {
	client *redis.Client
	name   string
	ttl    time.Duration
}

// NewCacheStore 创建缓存，name区分缓存类型（book、user），同时作为指标标签
func NewCacheStore(client *redis.Client, name string, ttl time.Duration) *CacheStore {
	return &CacheStore{client: client, name: name, ttl: ttl}
}

func (c *CacheStore) key(id int64) string {
	return fmt.Sprintf("library:%s:%d", c.name, id)
}

// Get 读取缓存并反序列化到dest，未命中返回false
func (c *CacheStore) Get(ctx context.Context, id int64, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCache(c.name, false)
		return false, nil
	}
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取缓存失败")
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 格式不兼容的旧数据直接删除，当作未命中
		_ = c.client.Del(ctx, c.key(id)).Err()
		metrics.RecordCache(c.name, false)
		return false, nil
	}

	metrics.RecordCache(c.name, true)
	return true, nil
}

// Set 写入缓存
func (c *CacheStore) Set(ctx context.Context, id int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "缓存序列化失败")
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "写入缓存失败")
	}
	return nil
}

// Delete 删除缓存
func (c *CacheStore) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "删除缓存失败")
	}
	return nil
}

// NopCache cache.enabled=false时使用，始终未命中
type NopCache struct{}

func (NopCache) Get(context.Context, int64, interface{}) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, int64, interface{}) error         { return nil }
func (NopCache) Delete(context.Context, int64) error                   { return nil }
