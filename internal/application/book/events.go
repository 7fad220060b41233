package book

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// 图书变更事件的路由键,下游可用book.*订阅
const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

// BookEvent 图书变更事件
// Title是变更前的书名(路径中的书名),Book是变更后的图书,删除事件没有Book
type BookEvent struct {
	Event      string        `json:"event"`
	Title      string        `json:"title"`
	Book       *BookResponse `json:"book,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// changeNotifier 写操作成功后的收尾:失效列表缓存、发布变更事件
// 两者都是尽力而为,失败只记日志,不影响已提交的写操作
type changeNotifier struct {
	cache     ListCache
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func newChangeNotifier(cache ListCache, publisher EventPublisher, logger *zap.Logger) *changeNotifier {
	return &changeNotifier{
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (n *changeNotifier) notify(ctx context.Context, event, title string, b *BookResponse) {
	// 1. 失效列表缓存
	if err := n.cache.Invalidate(ctx); err != nil {
		n.logger.Warn("失效列表缓存失败", zap.String("event", event), zap.Error(err))
	}

	// 2. 发布变更事件
	msg := BookEvent{
		Event:      event,
		Title:      title,
		Book:       b,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event, msg); err != nil {
		n.logger.Warn("发布图书事件失败",
			zap.String("event", event),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}
