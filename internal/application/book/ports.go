package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// ListCache 图书列表缓存端口,由infrastructure/persistence/redis实现
// 缓存按版本号组织:Get返回读取时的版本号,回写时带上它;Invalidate递增版本号
type ListCache interface {
	Get(ctx context.Context, params book.ListParams) (books []*book.Book, version int64, hit bool, err error)
	Set(ctx context.Context, version int64, params book.ListParams, books []*book.Book) error
	Invalidate(ctx context.Context) error
}

// EventPublisher 事件发布端口,由pkg/mq实现
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NopListCache 未启用Redis时使用,永远未命中
type NopListCache struct{}

func (NopListCache) Get(context.Context, book.ListParams) ([]*book.Book, int64, bool, error) {
	return nil, 0, false, nil
}

func (NopListCache) Set(context.Context, int64, book.ListParams, []*book.Book) error { return nil }

func (NopListCache) Invalidate(context.Context) error { return nil }

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
