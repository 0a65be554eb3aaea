package cache

import (
	"context"
	"time"

	"github.com/nexify/nexify-api/internal/logger"
)

// Remember 读取缓存，未命中时执行 compute 并回填（cache-aside）。
// 读写缓存失败只降级为重新计算，不向调用方传播。
func Remember[T any](ctx context.Context, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var cached T
	hit, err := GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("cache_get_failed", "key", key, "error", err)
	}
	if err == nil && hit {
		return cached, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	if setErr := SetJSON(ctx, key, value, ttl); setErr != nil {
		logger.Warnw("cache_set_failed", "key", key, "error", setErr)
	}
	return value, nil
}
