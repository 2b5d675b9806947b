package book

import (
	"github.com/kahfikurniaaji/library-api/model"
	"github.com/kahfikurniaaji/library-api/util/datetime"
)

type CreateBookReq struct {
	Code   string `json:"code" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Stock  int64  `json:"stock" validate:"gte=0"`
}

// UpdateBookReq fields are optional; blank keeps the current value. Stock is
// not accepted: it only moves through the borrow/return workflow.
type UpdateBookReq struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type BookResp struct {
	Code      string  `json:"code"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Stock     int64   `json:"stock"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

func toBookResp(b *model.Book) BookResp {
	return BookResp{
		Code:      b.Code,
		Title:     b.Title,
		Author:    b.Author,
		Stock:     b.Stock,
		CreatedAt: datetime.ToLocaleTime(b.CreatedAt),
		UpdatedAt: datetime.ToLocaleTime(b.UpdatedAt),
		DeletedAt: datetime.ToLocaleTimePtr(b.DeletedAt),
	}
}
