// model/borrowing.go
package model

import "time"

// Borrowing is one loan row. A row with ReturnDate == nil is an active loan;
// closing a loan sets ReturnDate instead of deleting the row.
type Borrowing struct {
	Code       int64      `json:"code"`
	BookCode   string     `json:"book_code"`
	MemberCode string     `json:"member_code"`
	BorrowDate time.Time  `json:"borrow_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

type BookSummary struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type MemberSummary struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	BorrowedCount   int    `json:"borrowed_count"`
	PenaltyDuration int    `json:"penalty_duration"`
}

// BorrowingDetail is a Borrowing joined with its book and member.
type BorrowingDetail struct {
	Code       int64         `json:"code"`
	BorrowDate time.Time     `json:"borrow_date"`
	ReturnDate *time.Time    `json:"return_date,omitempty"`
	Book       BookSummary   `json:"book"`
	Member     MemberSummary `json:"member"`
}
