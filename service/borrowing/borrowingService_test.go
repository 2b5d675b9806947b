package borrowing

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kahfikurniaaji/library-api/model"
)

// stub database/sql driver: the workflow owns BeginTx/Commit/Rollback while
// every query goes through the mocked repo, so the driver never sees SQL.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unexpected statement") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerOnce sync.Once

func stubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerOnce.Do(func() { sql.Register("borrowing-stub", stubDriver{}) })
	db, err := sql.Open("borrowing-stub", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type repoMock struct {
	bookExistsFn   func(ctx context.Context, code string) (bool, error)
	memberExistsFn func(ctx context.Context, code string) (bool, error)
	lockBookFn     func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error)
	lockMemberFn   func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error)
	hasActiveFn    func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (bool, error)
	activeLoanFn   func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error)
	insertFn       func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error)
	closeFn        func(ctx context.Context, tx *sql.Tx, code int64, at time.Time) error
	adjustStockFn  func(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error
	setMemberFn    func(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error
	listFn         func(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error)
	detailFn       func(ctx context.Context, code int64) (*model.BorrowingDetail, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) BookExists(ctx context.Context, code string) (bool, error) {
	if m.bookExistsFn == nil {
		return true, nil
	}
	return m.bookExistsFn(ctx, code)
}

func (m *repoMock) MemberExists(ctx context.Context, code string) (bool, error) {
	if m.memberExistsFn == nil {
		return true, nil
	}
	return m.memberExistsFn(ctx, code)
}

func (m *repoMock) LockBook(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
	return m.lockBookFn(ctx, tx, code)
}

func (m *repoMock) LockMember(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
	return m.lockMemberFn(ctx, tx, code)
}

func (m *repoMock) HasActiveBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (bool, error) {
	if m.hasActiveFn == nil {
		return false, nil
	}
	return m.hasActiveFn(ctx, tx, bookCode, memberCode)
}

func (m *repoMock) ActiveBorrowingForUpdate(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error) {
	return m.activeLoanFn(ctx, tx, bookCode, memberCode)
}

func (m *repoMock) InsertBorrowing(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error) {
	return m.insertFn(ctx, tx, bookCode, memberCode, at)
}

func (m *repoMock) CloseBorrowing(ctx context.Context, tx *sql.Tx, code int64, at time.Time) error {
	if m.closeFn == nil {
		return nil
	}
	return m.closeFn(ctx, tx, code, at)
}

func (m *repoMock) AdjustStock(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error {
	if m.adjustStockFn == nil {
		return nil
	}
	return m.adjustStockFn(ctx, tx, bookCode, delta)
}

func (m *repoMock) SetMemberLoanState(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error {
	if m.setMemberFn == nil {
		return nil
	}
	return m.setMemberFn(ctx, tx, memberCode, borrowedCount, penaltyDuration)
}

func (m *repoMock) List(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error) {
	return m.listFn(ctx, bookCode, memberCode)
}

func (m *repoMock) Detail(ctx context.Context, code int64) (*model.BorrowingDetail, error) {
	if m.detailFn == nil {
		return &model.BorrowingDetail{Code: code}, nil
	}
	return m.detailFn(ctx, code)
}

func newTestService(t *testing.T, m *repoMock, now time.Time) *service {
	t.Helper()
	s := New(stubDB(t), m).(*service)
	s.now = func() time.Time { return now }
	return s
}

// --- tests ---

func TestBorrow_Success(t *testing.T) {
	ctx := context.Background()
	now := day(2024, time.March, 1, 10)

	var (
		inserted    bool
		stockDelta  int64
		gotCount    = -1
		gotPenalty  = -1
		detailAsked int64
	)
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			require.Equal(t, "JK-45", code)
			return &model.Book{Code: code, Stock: 1}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			require.Equal(t, "M001", code)
			return &model.Member{Code: code}, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error) {
			inserted = true
			require.Equal(t, now, at)
			return &model.Borrowing{Code: 7, BookCode: bookCode, MemberCode: memberCode, BorrowDate: at}, nil
		},
		adjustStockFn: func(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error {
			stockDelta = delta
			return nil
		},
		setMemberFn: func(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error {
			gotCount, gotPenalty = borrowedCount, penaltyDuration
			return nil
		},
		detailFn: func(ctx context.Context, code int64) (*model.BorrowingDetail, error) {
			detailAsked = code
			return &model.BorrowingDetail{Code: code, BorrowDate: now}, nil
		},
	}

	out, err := newTestService(t, m, now).Borrow(ctx, " JK-45 ", "M001")
	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, int64(-1), stockDelta)
	require.Equal(t, 1, gotCount)
	require.Equal(t, 0, gotPenalty)
	require.Equal(t, int64(7), detailAsked)
	require.Equal(t, int64(7), out.Code)
}

func TestBorrow_BookNotFound(t *testing.T) {
	m := &repoMock{
		bookExistsFn: func(ctx context.Context, code string) (bool, error) { return false, nil },
	}
	_, err := newTestService(t, m, time.Now()).Borrow(context.Background(), "NOPE", "M001")
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestBorrow_MemberNotFound(t *testing.T) {
	m := &repoMock{
		memberExistsFn: func(ctx context.Context, code string) (bool, error) { return false, nil },
	}
	_, err := newTestService(t, m, time.Now()).Borrow(context.Background(), "JK-45", "NOPE")
	require.Equal(t, ErrMemberNotFound, Code(err))
}

func TestBorrow_DuplicateActiveLoan(t *testing.T) {
	insertCalled := false
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 3}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code}, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (bool, error) {
			return true, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error) {
			insertCalled = true
			return nil, nil
		},
	}
	_, err := newTestService(t, m, time.Now()).Borrow(context.Background(), "JK-45", "M001")
	require.Equal(t, ErrAlreadyBorrowed, Code(err))
	require.False(t, insertCalled)
}

func TestBorrow_OutOfStock(t *testing.T) {
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 0}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code}, nil
		},
	}
	_, err := newTestService(t, m, time.Now()).Borrow(context.Background(), "JK-45", "M002")
	require.Equal(t, ErrOutOfStock, Code(err))
}

func TestBorrow_InsertFailureRollsBack(t *testing.T) {
	boom := errors.New("insert failed")
	stockTouched := false
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 1}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code}, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string, at time.Time) (*model.Borrowing, error) {
			return nil, boom
		},
		adjustStockFn: func(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error {
			stockTouched = true
			return nil
		},
	}
	_, err := newTestService(t, m, time.Now()).Borrow(context.Background(), "JK-45", "M001")
	require.ErrorIs(t, err, boom)
	require.False(t, stockTouched)
}

func TestReturn_NotBorrowed(t *testing.T) {
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 1}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code, BorrowedCount: 1}, nil
		},
		activeLoanFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error) {
			return nil, sql.ErrNoRows
		},
	}
	_, err := newTestService(t, m, time.Now()).Return(context.Background(), "JK-45", "M001")
	require.Equal(t, ErrNotBorrowed, Code(err))
}

func TestReturn_OnTime(t *testing.T) {
	now := day(2024, time.March, 8, 12)
	var (
		closedAt   time.Time
		stockDelta int64
		gotCount   = -1
		gotPenalty = -1
	)
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 0}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code, BorrowedCount: 1, PenaltyDuration: 2}, nil
		},
		activeLoanFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error) {
			return &model.Borrowing{Code: 7, BookCode: bookCode, MemberCode: memberCode, BorrowDate: day(2024, time.March, 1, 9)}, nil
		},
		closeFn: func(ctx context.Context, tx *sql.Tx, code int64, at time.Time) error {
			require.Equal(t, int64(7), code)
			closedAt = at
			return nil
		},
		adjustStockFn: func(ctx context.Context, tx *sql.Tx, bookCode string, delta int64) error {
			stockDelta = delta
			return nil
		},
		setMemberFn: func(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error {
			gotCount, gotPenalty = borrowedCount, penaltyDuration
			return nil
		},
	}

	_, err := newTestService(t, m, now).Return(context.Background(), "JK-45", "M001")
	require.NoError(t, err)
	require.Equal(t, now, closedAt)
	require.Equal(t, int64(1), stockDelta)
	require.Equal(t, 0, gotCount)
	// On-time return keeps a pre-existing penalty untouched.
	require.Equal(t, 2, gotPenalty)
}

func TestReturn_LateSetsPenalty(t *testing.T) {
	now := day(2024, time.March, 9, 8)
	gotPenalty := -1
	m := &repoMock{
		lockBookFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Book, error) {
			return &model.Book{Code: code, Stock: 0}, nil
		},
		lockMemberFn: func(ctx context.Context, tx *sql.Tx, code string) (*model.Member, error) {
			return &model.Member{Code: code, BorrowedCount: 2}, nil
		},
		activeLoanFn: func(ctx context.Context, tx *sql.Tx, bookCode, memberCode string) (*model.Borrowing, error) {
			return &model.Borrowing{Code: 9, BorrowDate: day(2024, time.March, 1, 9)}, nil
		},
		setMemberFn: func(ctx context.Context, tx *sql.Tx, memberCode string, borrowedCount, penaltyDuration int) error {
			gotPenalty = penaltyDuration
			return nil
		},
	}

	_, err := newTestService(t, m, now).Return(context.Background(), "JK-45", "M001")
	require.NoError(t, err)
	require.Equal(t, LatePenaltyDays, gotPenalty)
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, code int64) (*model.BorrowingDetail, error) {
			return nil, sql.ErrNoRows
		},
	}
	_, err := newTestService(t, m, time.Now()).Detail(context.Background(), 404)
	require.Equal(t, ErrBorrowingNotFound, Code(err))
}

func TestList_PassesFilters(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, bookCode, memberCode string) ([]model.BorrowingDetail, error) {
			require.Equal(t, "JK-45", bookCode)
			require.Equal(t, "M001", memberCode)
			return []model.BorrowingDetail{{Code: 1}}, nil
		},
	}
	rows, err := newTestService(t, m, time.Now()).List(context.Background(), " JK-45 ", "M001")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
