package book

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/application"

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排,书名重复检查由领域服务负责
// 2. 创建成功后失效列表缓存并发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	notifier    *changeNotifier
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, cache ListCache, publisher EventPublisher, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		notifier:    newChangeNotifier(cache, publisher, logger),
	}
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req BookRequest) (resp *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.CreateBook")
	defer func() {
		recordResult(span, "create", err)
		span.End()
	}()

	// 1. 调用领域服务创建
	created, err := uc.bookService.CreateBook(ctx, req.toEntity())
	if err != nil {
		return nil, err
	}

	// 2. 失效缓存、发布事件
	resp = toBookResponse(created)
	uc.notifier.notify(ctx, EventBookCreated, created.Title, resp)

	return resp, nil
}

// recordResult 记录操作指标,业务拒绝(重复/不存在)不算作Span错误
func recordResult(span trace.Span, operation string, err error) {
	switch {
	case err == nil:
		metrics.RecordBookOperation(operation, metrics.ResultSuccess)
	case errors.Is(err, book.ErrBookNotFound), errors.Is(err, book.ErrTitleDuplicate):
		metrics.RecordBookOperation(operation, metrics.ResultRejected)
	default:
		metrics.RecordBookOperation(operation, metrics.ResultFailure)
		tracing.RecordError(span, err)
	}
}
