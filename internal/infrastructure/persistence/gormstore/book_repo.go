package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/gormstore"

// 整体覆盖时写入的列(除id外全部)
var replaceColumns = []string{"title", "author", "year", "latitude", "longitude"}

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为ErrTitleDuplicate,记录不存在转换为ErrBookNotFound
type bookRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, tx *TxManager) book.Repository {
	return &bookRepository{db: db, tx: tx}
}

// FindByTitle 按书名查找第一条记录
func (r *bookRepository) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository.FindByTitle")
	defer span.End()

	model, err := r.firstByTitle(ctx, title)
	if err != nil {
		if !errors.Is(err, book.ErrBookNotFound) {
			tracing.RecordError(span, err)
		}
		return nil, err
	}
	return toBookEntity(model), nil
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository.Create")
	defer span.End()

	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrTitleDuplicate
		}
		tracing.RecordError(span, err)
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	return nil
}

// List 按ID升序分页查询
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository.List")
	defer span.End()

	if params.Limit <= 0 {
		return []*book.Book{}, nil
	}

	var models []BookModel
	err := dbFromContext(ctx, r.db).
		Order("id ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&models).Error
	if err != nil {
		tracing.RecordError(span, err)
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// UpdateByTitle 整体覆盖书名为title的第一条记录
// 查找和更新在同一事务中完成,记录不存在时不会新建
func (r *bookRepository) UpdateByTitle(ctx context.Context, title string, data *book.Book) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository.UpdateByTitle")
	defer span.End()

	var updated *book.Book
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. 定位第一条匹配记录
		model, err := r.firstByTitle(ctx, title)
		if err != nil {
			return err
		}

		// 2. 覆盖除ID外的全部字段(Select保证零值也被写入)
		replacement := toBookModel(data)
		replacement.ID = 0
		result := dbFromContext(ctx, r.db).
			Model(model).
			Select(replaceColumns).
			Updates(replacement)
		if result.Error != nil {
			if isDuplicateError(result.Error) {
				return book.ErrTitleDuplicate
			}
			return apperrors.WrapCode(result.Error, apperrors.ErrCodeDatabaseError, "更新图书失败")
		}

		replacement.ID = model.ID
		updated = toBookEntity(replacement)
		return nil
	})
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeBookNotFound) && !apperrors.IsCode(err, apperrors.ErrCodeTitleDuplicate) {
			tracing.RecordError(span, err)
		}
		return nil, err
	}

	return updated, nil
}

// DeleteByTitle 删除所有同名记录,没有匹配时静默成功
func (r *bookRepository) DeleteByTitle(ctx context.Context, title string) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository.DeleteByTitle")
	defer span.End()

	err := dbFromContext(ctx, r.db).
		Where("title = ?", title).
		Delete(&BookModel{}).Error
	if err != nil {
		tracing.RecordError(span, err)
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "删除图书失败")
	}
	return nil
}

// firstByTitle 按ID升序取第一条同名记录
func (r *bookRepository) firstByTitle(ctx context.Context, title string) (*BookModel, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).
		Where("title = ?", title).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询图书失败")
	}
	return &model, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		Author:    model.Author,
		Year:      model.Year,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
	}
}
