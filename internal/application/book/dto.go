package book

import (
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// BookRequest 创建/更新请求DTO,字段已由HTTP层校验
type BookRequest struct {
	Title     string
	Author    string
	Year      int
	Latitude  float64
	Longitude float64
}

func (r BookRequest) toEntity() *book.Book {
	return book.NewBook(r.Title, r.Author, r.Year, r.Latitude, r.Longitude)
}

// BookResponse 图书响应DTO
// id由存储层分配,不对外返回
type BookResponse struct {
	Title     string  `json:"title" example:"Dune"`
	Author    string  `json:"author" example:"Herbert"`
	Year      int     `json:"year" example:"1965"`
	Latitude  float64 `json:"latitude" example:"0"`
	Longitude float64 `json:"longitude" example:"0"`
}

func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
	}
}
