package borrowing

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	borrowrepo "github.com/kahfikurniaaji/library-api/repository/borrowing"

	"github.com/kahfikurniaaji/library-api/model"
)

// Repo = repository surface the workflow needs; see repository/borrowing.
type Repo = borrowrepo.Repo

type Service interface {
	// Borrow lends one copy of a book to a member and returns the created
	// loan joined with its book and member.
	Borrow(ctx context.Context, bookCode, memberCode string) (*model.BorrowingDetail, error)

	// Return closes the member's active loan of the book.
	Return(ctx context.Context, bookCode, memberCode string) (*model.BorrowingDetail, error)

	// List returns loans (active and historical) newest-first, optionally
	// filtered by book and/or member code.
	List(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error)

	// Detail returns one loan by its code.
	Detail(ctx context.Context, code int64) (*model.BorrowingDetail, error)
}

type service struct {
	db  *sql.DB
	r   Repo
	now func() time.Time
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r, now: time.Now}
}

func (s *service) Borrow(ctx context.Context, bookCode, memberCode string) (_ *model.BorrowingDetail, err error) {
	bookCode = strings.TrimSpace(bookCode)
	memberCode = strings.TrimSpace(memberCode)

	if err := s.checkExists(ctx, bookCode, memberCode); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock both rows before reading state; concurrent borrows of the same
	// book or by the same member serialize here.
	book, err := s.r.LockBook(ctx, tx, bookCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	member, err := s.r.LockMember(ctx, tx, memberCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrMemberNotFound)
		}
		return nil, err
	}

	hasActive, err := s.r.HasActiveBorrowing(ctx, tx, bookCode, memberCode)
	if err != nil {
		return nil, err
	}

	dec, err := EvaluateBorrow(book, member, hasActive)
	if err != nil {
		return nil, err
	}

	loan, err := s.r.InsertBorrowing(ctx, tx, bookCode, memberCode, s.now())
	if err != nil {
		return nil, err
	}
	if err = s.r.AdjustStock(ctx, tx, bookCode, -1); err != nil {
		return nil, err
	}
	if err = s.r.SetMemberLoanState(ctx, tx, memberCode, dec.MemberBorrowedCount, member.PenaltyDuration); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return s.r.Detail(ctx, loan.Code)
}

func (s *service) Return(ctx context.Context, bookCode, memberCode string) (_ *model.BorrowingDetail, err error) {
	bookCode = strings.TrimSpace(bookCode)
	memberCode = strings.TrimSpace(memberCode)

	if err := s.checkExists(ctx, bookCode, memberCode); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	book, err := s.r.LockBook(ctx, tx, bookCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	member, err := s.r.LockMember(ctx, tx, memberCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrMemberNotFound)
		}
		return nil, err
	}

	loan, err := s.r.ActiveBorrowingForUpdate(ctx, tx, bookCode, memberCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotBorrowed)
		}
		return nil, err
	}

	now := s.now()
	dec := EvaluateReturn(book, member, loan, now)

	if err = s.r.CloseBorrowing(ctx, tx, loan.Code, now); err != nil {
		return nil, err
	}
	if err = s.r.AdjustStock(ctx, tx, bookCode, 1); err != nil {
		return nil, err
	}
	if err = s.r.SetMemberLoanState(ctx, tx, memberCode, dec.MemberBorrowedCount, dec.MemberPenaltyDuration); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return s.r.Detail(ctx, loan.Code)
}

func (s *service) List(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error) {
	return s.r.List(ctx, strings.TrimSpace(bookCode), strings.TrimSpace(memberCode))
}

func (s *service) Detail(ctx context.Context, code int64) (*model.BorrowingDetail, error) {
	d, err := s.r.Detail(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBorrowingNotFound)
		}
		return nil, err
	}
	return d, nil
}

// checkExists reports NotFound for the book before the member, matching the
// order clients observe.
func (s *service) checkExists(ctx context.Context, bookCode, memberCode string) error {
	ok, err := s.r.BookExists(ctx, bookCode)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrBookNotFound)
	}
	ok, err = s.r.MemberExists(ctx, memberCode)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrMemberNotFound)
	}
	return nil
}
