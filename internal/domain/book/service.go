package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装两条业务规则:创建时书名不能重复,更新/删除时图书必须存在
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 创建图书
	// 业务规则:书名已存在时返回ErrTitleDuplicate,不修改已有记录
	CreateBook(ctx context.Context, book *Book) (*Book, error)

	// GetBookByTitle 按书名获取图书
	GetBookByTitle(ctx context.Context, title string) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, error)

	// UpdateBook 整体替换书名为title的图书
	// 业务规则:图书不存在时返回ErrBookNotFound,不新建记录
	UpdateBook(ctx context.Context, title string, data *Book) (*Book, error)

	// DeleteBook 删除书名为title的图书
	// 业务规则:图书不存在时返回ErrBookNotFound
	DeleteBook(ctx context.Context, title string) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	// 1. 检查书名是否已存在
	// 并发创建同名图书时由唯一索引兜底,Repository返回ErrTitleDuplicate
	if _, err := s.repo.FindByTitle(ctx, book.Title); err == nil {
		return nil, ErrTitleDuplicate
	} else if !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByTitle 按书名获取图书
func (s *service) GetBookByTitle(ctx context.Context, title string) (*Book, error) {
	return s.repo.FindByTitle(ctx, title)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, error) {
	if params.Skip < 0 {
		params.Skip = 0
	}
	if params.Limit <= 0 {
		return []*Book{}, nil
	}
	return s.repo.List(ctx, params)
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, title string, data *Book) (*Book, error) {
	// 1. 图书必须存在
	if _, err := s.repo.FindByTitle(ctx, title); err != nil {
		return nil, err
	}

	// 2. 覆盖除ID以外的全部字段
	// 两次往返之间图书被删除时,Repository同样返回ErrBookNotFound
	return s.repo.UpdateByTitle(ctx, title, data)
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, title string) error {
	// 1. 图书必须存在
	if _, err := s.repo.FindByTitle(ctx, title); err != nil {
		return err
	}

	// 2. 删除所有同名记录
	return s.repo.DeleteByTitle(ctx, title)
}
