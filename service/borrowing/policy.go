package borrowing

import (
	"time"

	"github.com/kahfikurniaaji/library-api/model"
)

// Lending policy. Pure decision logic over a loaded snapshot of the book,
// member and loan rows; no I/O happens here.

const (
	// MaxConcurrentLoans caps loans per member across all titles.
	MaxConcurrentLoans = 2
	// LoanPeriodDays is the window after which a return counts as late.
	LoanPeriodDays = 7
	// LatePenaltyDays is the flat penalty written on a late return. It
	// overwrites any prior value rather than accumulating.
	LatePenaltyDays = 3
)

// BorrowDecision is the mutation set for an allowed borrow.
type BorrowDecision struct {
	BookStock           int64
	MemberBorrowedCount int
}

// EvaluateBorrow decides whether member may borrow book. hasActiveLoan must
// say whether the member already holds an open loan of this exact title.
func EvaluateBorrow(book *model.Book, member *model.Member, hasActiveLoan bool) (*BorrowDecision, error) {
	if hasActiveLoan {
		return nil, makeErr(ErrAlreadyBorrowed)
	}
	if book.Stock == 0 {
		return nil, makeErr(ErrOutOfStock)
	}
	if member.BorrowedCount >= MaxConcurrentLoans {
		return nil, makeErr(ErrBorrowLimit)
	}
	if member.PenaltyDuration > 0 {
		return nil, makeErr(ErrUnderPenalty)
	}
	return &BorrowDecision{
		BookStock:           book.Stock - 1,
		MemberBorrowedCount: member.BorrowedCount + 1,
	}, nil
}

// ReturnDecision is the mutation set for a return.
type ReturnDecision struct {
	DueDate               time.Time
	Late                  bool
	BookStock             int64
	MemberBorrowedCount   int
	MemberPenaltyDuration int
}

// EvaluateReturn computes the effects of returning the given active loan at
// now. Lateness is judged on calendar days: both sides are truncated to
// midnight, so returning on the due date itself is never late. An on-time
// return leaves any pre-existing penalty untouched.
func EvaluateReturn(book *model.Book, member *model.Member, loan *model.Borrowing, now time.Time) *ReturnDecision {
	dueDate := truncateToMidnight(loan.BorrowDate).AddDate(0, 0, LoanPeriodDays)
	returnDate := truncateToMidnight(now)

	d := &ReturnDecision{
		DueDate:               dueDate,
		BookStock:             book.Stock + 1,
		MemberBorrowedCount:   member.BorrowedCount - 1,
		MemberPenaltyDuration: member.PenaltyDuration,
	}
	if returnDate.After(dueDate) {
		d.Late = true
		d.MemberPenaltyDuration = LatePenaltyDays
	}
	return d
}

func truncateToMidnight(t time.Time) time.Time {
	t = t.Local()
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
