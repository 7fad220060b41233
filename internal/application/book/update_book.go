package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// UpdateBookUseCase 更新图书用例
// 整体替换:除ID外的所有字段都被请求中的值覆盖,书名也可以修改
type UpdateBookUseCase struct {
	bookService book.Service
	notifier    *changeNotifier
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, cache ListCache, publisher EventPublisher, logger *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		notifier:    newChangeNotifier(cache, publisher, logger),
	}
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, title string, req BookRequest) (resp *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.UpdateBook")
	defer func() {
		recordResult(span, "update", err)
		span.End()
	}()

	updated, err := uc.bookService.UpdateBook(ctx, title, req.toEntity())
	if err != nil {
		return nil, err
	}

	resp = toBookResponse(updated)
	uc.notifier.notify(ctx, EventBookUpdated, title, resp)

	return resp, nil
}
