package borrowing

import (
	"github.com/kahfikurniaaji/library-api/model"
	"github.com/kahfikurniaaji/library-api/util/datetime"
)

type BorrowReq struct {
	BookCode   string `json:"book_code" validate:"required"`
	MemberCode string `json:"member_code" validate:"required"`
}

type BorrowingResp struct {
	Code       int64               `json:"code"`
	BorrowDate string              `json:"borrow_date"`
	ReturnDate *string             `json:"return_date,omitempty"`
	Book       model.BookSummary   `json:"book"`
	Member     model.MemberSummary `json:"member"`
}

func toBorrowingResp(d *model.BorrowingDetail) BorrowingResp {
	return BorrowingResp{
		Code:       d.Code,
		BorrowDate: datetime.ToLocaleTime(d.BorrowDate),
		ReturnDate: datetime.ToLocaleTimePtr(d.ReturnDate),
		Book:       d.Book,
		Member:     d.Member,
	}
}
