package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现;每个方法是一次独立提交的存储往返
//
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . Repository
type Repository interface {
	// FindByTitle 按书名查找第一条匹配记录,不存在返回ErrBookNotFound
	FindByTitle(ctx context.Context, title string) (*Book, error)

	// Create 创建图书,成功后回填book.ID
	// 书名冲突(唯一索引)返回ErrTitleDuplicate
	Create(ctx context.Context, book *Book) error

	// List 按ID升序分页查询
	List(ctx context.Context, params ListParams) ([]*Book, error)

	// UpdateByTitle 用data覆盖书名为title的第一条记录(ID保持不变)并返回更新后的记录
	// 不存在返回ErrBookNotFound,不会新建记录;新书名冲突返回ErrTitleDuplicate
	UpdateByTitle(ctx context.Context, title string, data *Book) (*Book, error)

	// DeleteByTitle 删除所有书名为title的记录,没有匹配时静默成功
	DeleteByTitle(ctx context.Context, title string) error
}

// ListParams 列表查询参数
type ListParams struct {
	Skip  int // 跳过的记录数
	Limit int // 最多返回的记录数,0表示返回空列表
}
