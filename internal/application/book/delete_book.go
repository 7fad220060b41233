package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookService book.Service
	notifier    *changeNotifier
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, cache ListCache, publisher EventPublisher, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		notifier:    newChangeNotifier(cache, publisher, logger),
	}
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, title string) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.DeleteBook")
	defer func() {
		recordResult(span, "delete", err)
		span.End()
	}()

	if err := uc.bookService.DeleteBook(ctx, title); err != nil {
		return err
	}

	uc.notifier.notify(ctx, EventBookDeleted, title, nil)
	return nil
}
