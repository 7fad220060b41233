package gormstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// newTestDB 每个测试独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
	}
	db, cleanup, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db
}

func newTestRepo(t *testing.T) (book.Repository, *gorm.DB) {
	db := newTestDB(t)
	return NewBookRepository(db, NewTxManager(db)), db
}

func TestBookRepository_CreateAndFind(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	b := book.NewBook("Dune", "Herbert", 1965, 0, 0)
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.ID, "应回填自增ID")

	found, err := repo.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, b, found)

	_, err = repo.FindByTitle(ctx, "dune")
	assert.ErrorIs(t, err, book.ErrBookNotFound, "书名区分大小写")
}

func TestBookRepository_CreateDuplicate(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, book.NewBook("Dune", "Herbert", 1965, 0, 0)))

	err := repo.Create(ctx, book.NewBook("Dune", "Someone Else", 2000, 1, 1))
	assert.ErrorIs(t, err, book.ErrTitleDuplicate)

	var count int64
	require.NoError(t, db.Model(&BookModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, "Herbert", found.Author, "已有记录不被修改")
}

func TestBookRepository_List(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, book.NewBook(fmt.Sprintf("Book %d", i), "Author", 2000+i, 0, 0)))
	}

	testCases := []struct {
		name   string
		params book.ListParams
		want   []string
	}{
		{"全部", book.ListParams{Skip: 0, Limit: 100}, []string{"Book 1", "Book 2", "Book 3", "Book 4", "Book 5"}},
		{"限制条数", book.ListParams{Skip: 0, Limit: 2}, []string{"Book 1", "Book 2"}},
		{"跳过", book.ListParams{Skip: 3, Limit: 100}, []string{"Book 4", "Book 5"}},
		{"跳过超出总数", book.ListParams{Skip: 10, Limit: 100}, []string{}},
		{"limit为0", book.ListParams{Skip: 0, Limit: 0}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			books, err := repo.List(ctx, tc.params)
			require.NoError(t, err)
			require.NotNil(t, books)

			titles := make([]string, 0, len(books))
			for _, b := range books {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tc.want, titles)
		})
	}
}

func TestBookRepository_UpdateByTitle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	original := book.NewBook("Dune", "Herbert", 1965, 12.5, -3.25)
	require.NoError(t, repo.Create(ctx, original))

	// 零值字段同样被写入
	updated, err := repo.UpdateByTitle(ctx, "Dune", book.NewBook("Dune", "Frank Herbert", 1966, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, 1966, updated.Year)

	found, err := repo.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, &book.Book{ID: original.ID, Title: "Dune", Author: "Frank Herbert", Year: 1966}, found)
}

func TestBookRepository_UpdateByTitle_Rename(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, book.NewBook("Dune", "Herbert", 1965, 0, 0)))
	require.NoError(t, repo.Create(ctx, book.NewBook("Emma", "Austen", 1815, 0, 0)))

	renamed, err := repo.UpdateByTitle(ctx, "Dune", book.NewBook("Dune Messiah", "Herbert", 1969, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", renamed.Title)

	_, err = repo.FindByTitle(ctx, "Dune")
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// 改名为已存在的书名
	_, err = repo.UpdateByTitle(ctx, "Emma", book.NewBook("Dune Messiah", "Austen", 1815, 0, 0))
	assert.ErrorIs(t, err, book.ErrTitleDuplicate)

	emma, err := repo.FindByTitle(ctx, "Emma")
	require.NoError(t, err)
	assert.Equal(t, "Austen", emma.Author)
}

func TestBookRepository_UpdateByTitle_NotFound(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.UpdateByTitle(ctx, "Missing", book.NewBook("Missing", "Nobody", 2000, 0, 0))
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	var count int64
	require.NoError(t, db.Model(&BookModel{}).Count(&count).Error)
	assert.Zero(t, count, "不应新建记录")
}

func TestBookRepository_DeleteByTitle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, book.NewBook("Dune", "Herbert", 1965, 0, 0)))
	require.NoError(t, repo.Create(ctx, book.NewBook("Emma", "Austen", 1815, 0, 0)))

	require.NoError(t, repo.DeleteByTitle(ctx, "Dune"))
	_, err := repo.FindByTitle(ctx, "Dune")
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// 没有匹配记录时静默成功
	assert.NoError(t, repo.DeleteByTitle(ctx, "Dune"))

	books, err := repo.List(ctx, book.ListParams{Limit: 100})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
}

func TestTxManager_Rollback(t *testing.T) {
	repo, db := newTestRepo(t)
	tx := NewTxManager(db)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, book.NewBook("Dune", "Herbert", 1965, 0, 0)); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = repo.FindByTitle(ctx, "Dune")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}
	_, _, err := NewDB(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestPinger(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, NewPinger(db).Ping(context.Background()))
}

func TestIsDuplicateError(t *testing.T) {
	testCases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("Error 1062 (23000): Duplicate entry 'Dune' for key 'books.uk_books_title'"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uk_books_title" (SQLSTATE 23505)`), true},
		{errors.New("constraint failed: UNIQUE constraint failed: books.title (2067)"), true},
		{errors.New("connection refused"), false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, isDuplicateError(tc.err), "%v", tc.err)
	}
}
