package book

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 先读列表缓存,未命中再查数据库并回写
// 2. 缓存不可用(Redis故障、熔断器打开)时直接查数据库,不影响接口可用性
// 3. skip/limit的默认值和范围由HTTP层校验
type ListBooksUseCase struct {
	bookService book.Service
	cache       ListCache
	logger      *zap.Logger
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, cache ListCache, logger *zap.Logger) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		cache:       cache,
		logger:      logger,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Skip  int // 跳过的记录数
	Limit int // 最多返回的记录数
}

// Execute 执行列表查询用例
// 返回值总是非nil切片,没有数据时序列化为[]
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp []*BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.ListBooks")
	defer func() {
		recordResult(span, "list", err)
		span.End()
	}()

	params := book.ListParams{Skip: req.Skip, Limit: req.Limit}

	// 1. 读缓存
	cached, version, hit, cacheErr := uc.cache.Get(ctx, params)
	switch {
	case cacheErr == nil && hit:
		metrics.RecordListCache(metrics.CacheHit)
		return toBookResponses(cached), nil
	case cacheErr == nil:
		metrics.RecordListCache(metrics.CacheMiss)
	case errors.Is(cacheErr, circuitbreaker.ErrOpenState):
		metrics.RecordListCache(metrics.CacheBypass)
	default:
		metrics.RecordListCache(metrics.CacheError)
		uc.logger.Warn("读取列表缓存失败,回退到数据库", zap.Error(cacheErr))
	}

	// 2. 查数据库
	books, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. 回写缓存(只在缓存可用时)
	if cacheErr == nil {
		if err := uc.cache.Set(ctx, version, params, books); err != nil {
			uc.logger.Warn("写入列表缓存失败", zap.Error(err))
		}
	}

	return toBookResponses(books), nil
}

func toBookResponses(books []*book.Book) []*BookResponse {
	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = toBookResponse(b)
	}
	return list
}
