package memberrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kahfikurniaaji/library-api/model"
)

var ErrDuplicateCode = errors.New("member code already exists")

type Repo interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, m *model.Member) error
	List(ctx context.Context) ([]model.Member, error)
	ByCode(ctx context.Context, code string) (*model.Member, error)
	Update(ctx context.Context, code, newCode, name string) (*model.Member, error)
	SoftDelete(ctx context.Context, code string) (*model.Member, error)

	// DecayPenalties decrements every positive penalty counter by one in a
	// single statement. Returns the number of members touched.
	DecayPenalties(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Exists(ctx context.Context, code string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM members
			WHERE code = $1 AND unregistered_at IS NULL
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, code).Scan(&ok)
	return ok, err
}

func (r *repo) Create(ctx context.Context, m *model.Member) error {
	const q = `
		INSERT INTO members (code, name)
		VALUES ($1, $2)
		RETURNING borrowed_count, penalty_duration, registered_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, m.Code, m.Name).
		Scan(&m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (r *repo) List(ctx context.Context) ([]model.Member, error) {
	const q = `
		SELECT code, name, borrowed_count, penalty_duration, registered_at, updated_at
		FROM members
		WHERE unregistered_at IS NULL
		ORDER BY registered_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.Code, &m.Name, &m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) ByCode(ctx context.Context, code string) (*model.Member, error) {
	const q = `
		SELECT code, name, borrowed_count, penalty_duration, registered_at, updated_at
		FROM members
		WHERE code = $1 AND unregistered_at IS NULL`
	m := &model.Member{}
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&m.Code, &m.Name, &m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes code/name only. The borrowed_count and penalty_duration
// counters belong to the borrowing workflow and are never written here.
func (r *repo) Update(ctx context.Context, code, newCode, name string) (*model.Member, error) {
	const q = `
		UPDATE members
		SET code = $2, name = $3, updated_at = now()
		WHERE code = $1 AND unregistered_at IS NULL
		RETURNING code, name, borrowed_count, penalty_duration, registered_at, updated_at`
	m := &model.Member{}
	err := r.db.QueryRowContext(ctx, q, code, newCode, name).
		Scan(&m.Code, &m.Name, &m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) SoftDelete(ctx context.Context, code string) (*model.Member, error) {
	const q = `
		UPDATE members
		SET unregistered_at = now(), updated_at = now()
		WHERE code = $1 AND unregistered_at IS NULL
		RETURNING code, name, borrowed_count, penalty_duration, registered_at, updated_at, unregistered_at`
	m := &model.Member{}
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&m.Code, &m.Name, &m.BorrowedCount, &m.PenaltyDuration, &m.RegisteredAt, &m.UpdatedAt, &m.UnregisteredAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) DecayPenalties(ctx context.Context) (int64, error) {
	// Single bulk statement so the decay run never holds row locks across a
	// read-then-write loop. The predicate keeps the counter from going negative.
	const q = `
		UPDATE members
		SET penalty_duration = penalty_duration - 1, updated_at = now()
		WHERE penalty_duration > 0 AND unregistered_at IS NULL`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
