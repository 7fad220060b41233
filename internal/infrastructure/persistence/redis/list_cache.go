package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// Key设计：
//   - bookshelf:books:list:version               当前版本号，每次写操作INCR
//   - bookshelf:books:list:{version}:{skip}:{limit}  某一版本下的一页数据
//
// 写操作只递增版本号，旧版本的分页缓存不再被读到，随TTL自然过期。
const (
	listVersionKey = "bookshelf:books:list:version"
	listEntryKey   = "bookshelf:books:list:%d:%d:%d"

	breakerName = "redis-list-cache"
)

// ListCache 图书列表缓存
// 所有Redis调用经过熔断器，Redis故障时调用方回退到数据库
//
// Invalidate失败时置dirty：之后的Get先重试递增版本号，成功前一律返回错误，
// 调用方因此直接查库且不回写，旧版本的分页不会再被读到。
type ListCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
	dirty   atomic.Bool
}

// cachedBook 缓存中的图书（保留ID，与领域实体一一对应）
type cachedBook struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Year      int     `json:"year"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewListCache 创建图书列表缓存
func NewListCache(client redis.Cmdable, cfg *config.Config, logger *zap.Logger) *ListCache {
	breaker := circuitbreaker.NewCircuitBreaker(breakerName, circuitbreaker.Config{
		MaxRequests: cfg.Cache.Breaker.MaxRequests,
		Interval:    cfg.Cache.Breaker.Interval,
		Timeout:     cfg.Cache.Breaker.Timeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.Cache.Breaker.ConsecutiveFailures),
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.RecordBreakerState(name, int(to))
	})
	metrics.RecordBreakerState(breakerName, int(circuitbreaker.StateClosed))

	return &ListCache{
		client:  client,
		ttl:     cfg.Cache.ListTTL,
		breaker: breaker,
		logger:  logger,
	}
}

// Get 读取一页缓存
// 返回读取时的版本号，未命中时调用方用它回写Set，避免把旧数据写进新版本
func (c *ListCache) Get(ctx context.Context, params book.ListParams) ([]*book.Book, int64, bool, error) {
	var (
		version int64
		data    []byte
		hit     bool
	)

	// 0. 上次失效失败，先补上
	if c.dirty.Load() {
		if err := c.Invalidate(ctx); err != nil {
			return nil, 0, false, err
		}
		c.logger.Info("列表缓存补偿失效成功")
	}

	err := c.breaker.Execute(func() error {
		// 1. 当前版本号（不存在视为0）
		v, err := c.client.Get(ctx, listVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		version = v

		// 2. 该版本下的分页数据
		data, err = c.client.Get(ctx, entryKey(version, params)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		hit = true
		return nil
	})
	if err != nil {
		return nil, 0, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取列表缓存失败")
	}
	if !hit {
		return nil, version, false, nil
	}

	var cached []cachedBook
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, version, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "解析列表缓存失败")
	}

	books := make([]*book.Book, len(cached))
	for i, b := range cached {
		books[i] = &book.Book{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Year:      b.Year,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		}
	}
	return books, version, true, nil
}

// Set 把一页数据写入指定版本
// dirty期间不回写
func (c *ListCache) Set(ctx context.Context, version int64, params book.ListParams, books []*book.Book) error {
	if c.dirty.Load() {
		return nil
	}

	cached := make([]cachedBook, len(books))
	for i, b := range books {
		cached[i] = cachedBook{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Year:      b.Year,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "序列化列表缓存失败")
	}

	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, entryKey(version, params), data, c.ttl).Err()
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入列表缓存失败")
	}
	return nil
}

// Invalidate 递增版本号，使所有已缓存的分页失效
// 失败时置dirty，直到某次Invalidate成功
func (c *ListCache) Invalidate(ctx context.Context) error {
	err := c.breaker.Execute(func() error {
		return c.client.Incr(ctx, listVersionKey).Err()
	})
	if err != nil {
		c.dirty.Store(true)
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "失效列表缓存失败")
	}
	c.dirty.Store(false)
	return nil
}

// BreakerState 熔断器当前状态
func (c *ListCache) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

func entryKey(version int64, params book.ListParams) string {
	return fmt.Sprintf(listEntryKey, version, params.Skip, params.Limit)
}
