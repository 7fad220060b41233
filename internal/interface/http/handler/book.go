package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase *appbook.CreateBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	updateBookUseCase *appbook.UpdateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
	pagination        dto.Pagination
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	cfg *config.Config,
	createBookUseCase *appbook.CreateBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	dto.RegisterValidatorTagName()

	return &BookHandler{
		createBookUseCase: createBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		updateBookUseCase: updateBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
		pagination: dto.Pagination{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  书名已存在时返回400,不修改已有记录;title和author最多255个字符
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} appbook.BookResponse
// @Failure      400 {object} response.ErrorBody "Title already given"
// @Failure      422 {object} response.ErrorBody{detail=[]response.FieldError} "参数校验失败"
// @Router       /books/ [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	req, details := dto.BindBook(c)
	if details != nil {
		response.ValidationError(c, details)
		return
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), req.ToAppRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBooks 查询图书列表
// @Summary      查询图书列表
// @Description  按id升序分页返回
// @Tags         books
// @Produce      json
// @Param        skip  query int false "跳过的记录数" default(0) minimum(0)
// @Param        limit query int false "最多返回的记录数" default(100) minimum(0) maximum(1000)
// @Success      200 {array} appbook.BookResponse
// @Failure      422 {object} response.ErrorBody{detail=[]response.FieldError} "参数校验失败"
// @Router       /books/ [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	query, details := dto.BindListQuery(c, h.pagination)
	if details != nil {
		response.ValidationError(c, details)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Skip:  query.Skip,
		Limit: query.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateBook 整体替换图书
// @Summary      更新图书
// @Description  用请求体替换书名为title的图书,请求体中的title可以改名;title和author最多255个字符
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        title   path string          true "书名"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} appbook.BookResponse
// @Failure      400 {object} response.ErrorBody "Title already given"
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Failure      422 {object} response.ErrorBody{detail=[]response.FieldError} "参数校验失败"
// @Router       /books/{title} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	// 1. 参数绑定与验证
	req, details := dto.BindBook(c)
	if details != nil {
		response.ValidationError(c, details)
		return
	}

	// 2. 书名来自路径(已解码,可以包含/)
	title := c.Param("title")

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), title, req.ToAppRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         books
// @Produce      json
// @Param        title path string true "书名"
// @Success      200 {object} response.MessageBody
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Router       /books/{title} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("title")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Book deleted successfully")
}
