package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	repo "github.com/kahfikurniaaji/library-api/repository/book"

	"github.com/kahfikurniaaji/library-api/model"
)

type Book = model.Book

var (
	ErrNotFound   = errors.New("book is not exist")
	ErrCodeExists = errors.New("book code already exists")
	ErrInvalid    = errors.New("invalid payload")
)

type Repo interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	ByCode(ctx context.Context, code string) (*model.Book, error)
	Update(ctx context.Context, code, newCode, title, author string) (*model.Book, error)
	SoftDelete(ctx context.Context, code string) (*model.Book, error)
}

type Service interface {
	Create(ctx context.Context, code, title, author string, stock int64) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	ByCode(ctx context.Context, code string) (*Book, error)
	// Update changes code/title/author; blank fields keep their value.
	// Stock is owned by the borrowing workflow and cannot be set here.
	Update(ctx context.Context, code, newCode, title, author string) (*Book, error)
	Delete(ctx context.Context, code string) (*Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, code, title, author string, stock int64) (*Book, error) {
	code = strings.TrimSpace(code)
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if code == "" || title == "" || author == "" || stock < 0 {
		return nil, ErrInvalid
	}

	exists, err := s.r.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	b := &Book{Code: code, Title: title, Author: author, Stock: stock}
	if err := s.r.Create(ctx, b); err != nil {
		if errors.Is(err, repo.ErrDuplicateCode) {
			return nil, ErrCodeExists
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]Book, error) { return s.r.List(ctx) }

func (s *service) ByCode(ctx context.Context, code string) (*Book, error) {
	b, err := s.r.ByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) Update(ctx context.Context, code, newCode, title, author string) (*Book, error) {
	code = strings.TrimSpace(code)
	cur, err := s.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	newCode = strings.TrimSpace(newCode)
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if newCode == "" {
		newCode = cur.Code
	}
	if title == "" {
		title = cur.Title
	}
	if author == "" {
		author = cur.Author
	}

	if newCode != code {
		exists, err := s.r.Exists(ctx, newCode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCodeExists
		}
	}

	b, err := s.r.Update(ctx, code, newCode, title, author)
	if errors.Is(err, repo.ErrDuplicateCode) {
		return nil, ErrCodeExists
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *service) Delete(ctx context.Context, code string) (*Book, error) {
	b, err := s.r.SoftDelete(ctx, strings.TrimSpace(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}
