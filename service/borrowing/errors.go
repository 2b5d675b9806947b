package borrowing

import "errors"

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrMemberNotFound    ErrCode = "MEMBER_NOT_FOUND"
	ErrAlreadyBorrowed   ErrCode = "ALREADY_BORROWED"
	ErrOutOfStock        ErrCode = "OUT_OF_STOCK"
	ErrBorrowLimit       ErrCode = "BORROW_LIMIT"
	ErrUnderPenalty      ErrCode = "UNDER_PENALTY"
	ErrNotBorrowed       ErrCode = "NOT_BORROWED"
	ErrBorrowingNotFound ErrCode = "BORROWING_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
