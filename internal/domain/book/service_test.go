package book_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/book/mocks"
)

func dune() *book.Book {
	return book.NewBook("Dune", "Herbert", 1965, 0, 0)
}

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("书名不存在时创建", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(nil, book.ErrBookNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *book.Book) error {
			b.ID = 1
			return nil
		})

		created, err := svc.CreateBook(ctx, dune())
		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
		assert.Equal(t, "Herbert", created.Author)
	})

	t.Run("书名重复时拒绝且不写库", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(&book.Book{ID: 7, Title: "Dune"}, nil)

		_, err := svc.CreateBook(ctx, dune())
		assert.ErrorIs(t, err, book.ErrTitleDuplicate)
	})

	t.Run("并发创建被唯一索引拦截", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(nil, book.ErrBookNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(book.ErrTitleDuplicate)

		_, err := svc.CreateBook(ctx, dune())
		assert.ErrorIs(t, err, book.ErrTitleDuplicate)
	})

	t.Run("查询失败直接返回", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		dbErr := errors.New("connection refused")
		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(nil, dbErr)

		_, err := svc.CreateBook(ctx, dune())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_ListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("透传分页参数", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		want := []*book.Book{dune()}
		repo.EXPECT().List(gomock.Any(), book.ListParams{Skip: 5, Limit: 1}).Return(want, nil)

		got, err := svc.ListBooks(ctx, book.ListParams{Skip: 5, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("limit为0不查库", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		got, err := svc.ListBooks(ctx, book.ListParams{Skip: 0, Limit: 0})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("存在时整体替换", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		data := book.NewBook("Dune", "Herbert", 1966, 1.5, -2.5)
		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(&book.Book{ID: 1, Title: "Dune"}, nil)
		repo.EXPECT().UpdateByTitle(gomock.Any(), "Dune", data).Return(&book.Book{
			ID: 1, Title: "Dune", Author: "Herbert", Year: 1966, Latitude: 1.5, Longitude: -2.5,
		}, nil)

		updated, err := svc.UpdateBook(ctx, "Dune", data)
		require.NoError(t, err)
		assert.Equal(t, uint(1), updated.ID)
		assert.Equal(t, 1966, updated.Year)
	})

	t.Run("不存在时返回404且不写库", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		repo.EXPECT().FindByTitle(gomock.Any(), "Missing").Return(nil, book.ErrBookNotFound)

		_, err := svc.UpdateBook(ctx, "Missing", dune())
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestService_DeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("存在时删除", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		gomock.InOrder(
			repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(&book.Book{ID: 1, Title: "Dune"}, nil),
			repo.EXPECT().DeleteByTitle(gomock.Any(), "Dune").Return(nil),
		)

		assert.NoError(t, svc.DeleteBook(ctx, "Dune"))
	})

	t.Run("不存在时返回404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockRepository(ctrl)
		svc := book.NewService(repo)

		repo.EXPECT().FindByTitle(gomock.Any(), "Dune").Return(nil, book.ErrBookNotFound)

		assert.ErrorIs(t, svc.DeleteBook(ctx, "Dune"), book.ErrBookNotFound)
	})
}

func TestBook_Replace(t *testing.T) {
	b := &book.Book{ID: 3, Title: "Dune", Author: "Herbert", Year: 1965}
	b.Replace(book.NewBook("Dune Messiah", "Frank Herbert", 1969, 10, 20))

	assert.Equal(t, uint(3), b.ID, "ID保持不变")
	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "Frank Herbert", b.Author)
	assert.Equal(t, 1969, b.Year)
	assert.Equal(t, 10.0, b.Latitude)
	assert.Equal(t, 20.0, b.Longitude)
}
