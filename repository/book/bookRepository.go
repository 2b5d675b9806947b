package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kahfikurniaaji/library-api/model"
)

// ErrDuplicateCode is returned when an insert or rename collides with an
// existing book code.
var ErrDuplicateCode = errors.New("book code already exists")

type Repo interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	ByCode(ctx context.Context, code string) (*model.Book, error)
	Update(ctx context.Context, code, newCode, title, author string) (*model.Book, error)
	SoftDelete(ctx context.Context, code string) (*model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Exists(ctx context.Context, code string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM books
			WHERE code = $1 AND deleted_at IS NULL
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, code).Scan(&ok)
	return ok, err
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (code, title, author, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, b.Code, b.Title, b.Author, b.Stock).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
		SELECT code, title, author, stock, created_at, updated_at
		FROM books
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.Code, &b.Title, &b.Author, &b.Stock, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ByCode(ctx context.Context, code string) (*model.Book, error) {
	const q = `
		SELECT code, title, author, stock, created_at, updated_at
		FROM books
		WHERE code = $1 AND deleted_at IS NULL`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&b.Code, &b.Title, &b.Author, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update renames/retitles a book. Stock is maintained by the borrowing
// workflow only and is deliberately not updatable here.
func (r *repo) Update(ctx context.Context, code, newCode, title, author string) (*model.Book, error) {
	const q = `
		UPDATE books
		SET code = $2, title = $3, author = $4, updated_at = now()
		WHERE code = $1 AND deleted_at IS NULL
		RETURNING code, title, author, stock, created_at, updated_at`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, code, newCode, title, author).
		Scan(&b.Code, &b.Title, &b.Author, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) SoftDelete(ctx context.Context, code string) (*model.Book, error) {
	const q = `
		UPDATE books
		SET deleted_at = now(), updated_at = now()
		WHERE code = $1 AND deleted_at IS NULL
		RETURNING code, title, author, stock, created_at, updated_at, deleted_at`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&b.Code, &b.Title, &b.Author, &b.Stock, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
