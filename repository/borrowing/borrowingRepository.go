// repository/borrowing/repo.go
package borrowrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kahfikurniaaji/library-api/model"
)

type Repo interface {
	BookExists(ctx context.Context, code string) (bool, error)
	MemberExists(ctx context.Context, code string) (bool, error)

	// Row-locking reads; must run inside the borrow/return transaction.
	LockBook(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error)
	LockMember(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error)
	HasActiveBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (bool, error)
	ActiveBorrowingForUpdate(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error)

	// Mutations applied by the workflow inside the same transaction.
	InsertBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error)
	CloseBorrowing(ctx context.Context, tx *sql.Tx, code int64, at time.Time) error
	AdjustStock(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error
	SetMemberLoanState(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error

	// Joined reads.
	List(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error)
	Detail(ctx context.Context, code int64) (*model.BorrowingDetail, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) BookExists(ctx context.Context, code string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM books
			WHERE code = $1 AND deleted_at IS NULL
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, code).Scan(&ok)
	return ok, err
}

func (r *repo) MemberExists(ctx context.Context, code string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM members
			WHERE code = $1 AND unregistered_at IS NULL
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, code).Scan(&ok)
	return ok, err
}

func (r *repo) LockBook(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
	const q = `
		SELECT code, title, author, stock, created_at, updated_at
		FROM books
		WHERE code = $1 AND deleted_at IS NULL
		FOR UPDATE`
	b := &model.Book{}
	err := tx.QueryRowContext(ctx, q, code).
		Scan(&b.Code, &b.Title, &b.Author, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) LockMember(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
	const q = `
		SELECT code, name, borrowed_count, penalty_duration, registered_at, updated_at
		FROM members
		WHERE code = $1 AND unregistered_at IS NULL
		FOR UPDATE`
	m := &model.Member{}
	err := tx.QueryRowContext(ctx, q, code).
		Scan(&m.Code, &m.Name, &m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) HasActiveBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM borrowings
			WHERE book_code = $1 AND member_code = $2 AND return_date IS NULL
		)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, bookCode, memberCode).Scan(&ok)
	return ok, err
}

func (r *repo) ActiveBorrowingForUpdate(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error) {
	const q = `
		SELECT code, book_code, member_code, borrow_date, return_date
		FROM borrowings
		WHERE book_code = $1 AND member_code = $2 AND return_date IS NULL
		FOR UPDATE`
	b := &model.Borrowing{}
	err := tx.QueryRowContext(ctx, q, bookCode, memberCode).
		Scan(&b.Code, &b.BookCode, &b.MemberCode, &b.BorrowDate, &b.ReturnDate)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) InsertBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error) {
	const q = `
		INSERT INTO borrowings (book_code, member_code, borrow_date)
		VALUES ($1, $2, $3)
		RETURNING code, book_code, member_code, borrow_date, return_date`
	b := &model.Borrowing{}
	err := tx.QueryRowContext(ctx, q, bookCode, memberCode, at).
		Scan(&b.Code, &b.BookCode, &b.MemberCode, &b.BorrowDate, &b.ReturnDate)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) CloseBorrowing(ctx context.Context, tx *sql.Tx, code int64, at time.Time) error {
	const q = `
		UPDATE borrowings
		SET return_date = $2
		WHERE code = $1 AND return_date IS NULL`
	res, err := tx.ExecContext(ctx, q, code, at)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return errors.New("borrowing already closed")
	}
	return nil
}

func (r *repo) AdjustStock(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error {
	// Guard: never drive stock negative even if a caller misbehaves.
	const q = `
		UPDATE books
		SET stock = stock + $2, updated_at = now()
		WHERE code = $1 AND stock + $2 >= 0`
	res, err := tx.ExecContext(ctx, q, bookCode, delta)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return errors.New("stock adjustment refused")
	}
	return nil
}

func (r *repo) SetMemberLoanState(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error {
	const q = `
		UPDATE members
		SET borrowed_count = $2, penalty_duration = $3, updated_at = now()
		WHERE code = $1`
	_, err := tx.ExecContext(ctx, q, memberCode, borrowedCount, penaltyDuration)
	return err
}

const detailColumns = `
		br.code, br.borrow_date, br.return_date,
		b.code, b.title, b.author,
		m.code, m.name, m.borrowed_count, m.penalty_duration`

func (r *repo) List(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error) {
	q := `
		SELECT ` + detailColumns + `
		FROM borrowings br
		JOIN books b ON b.code = br.book_code
		JOIN members m ON m.code = br.member_code`

	var (
		args  []any
		conds []string
	)
	if bookCode != "" {
		args = append(args, bookCode)
		conds = append(conds, "br.book_code = $1")
	}
	if memberCode != "" {
		args = append(args, memberCode)
		if len(args) == 1 {
			conds = append(conds, "br.member_code = $1")
		} else {
			conds = append(conds, "br.member_code = $2")
		}
	}
	for i, c := range conds {
		if i == 0 {
			q += "\n\t\tWHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += "\n\t\tORDER BY br.borrow_date DESC, br.code DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BorrowingDetail
	for rows.Next() {
		var d model.BorrowingDetail
		if err := rows.Scan(
			&d.Code, &d.BorrowDate, &d.ReturnDate,
			&d.Book.Code, &d.Book.Title, &d.Book.Author,
			&d.Member.Code, &d.Member.Name, &d.Member.BorrowedCount, &d.Member.PenaltyDuration,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, code int64) (*model.BorrowingDetail, error) {
	q := `
		SELECT ` + detailColumns + `
		FROM borrowings br
		JOIN books b ON b.code = br.book_code
		JOIN members m ON m.code = br.member_code
		WHERE br.code = $1`
	d := &model.BorrowingDetail{}
	err := r.db.QueryRowContext(ctx, q, code).Scan(
		&d.Code, &d.BorrowDate, &d.ReturnDate,
		&d.Book.Code, &d.Book.Title, &d.Book.Author,
		&d.Member.Code, &d.Member.Name, &d.Member.BorrowedCount, &d.Member.PenaltyDuration,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}
