package membersvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	repo "github.com/kahfikurniaaji/library-api/repository/member"

	"github.com/kahfikurniaaji/library-api/model"
)

type Member = model.Member

var (
	ErrNotFound   = errors.New("member is not exist")
	ErrCodeExists = errors.New("member code already exists")
	ErrInvalid    = errors.New("invalid payload")
)

type Repo interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, m *model.Member) error
	List(ctx context.Context) ([]model.Member, error)
	ByCode(ctx context.Context, code string) (*model.Member, error)
	Update(ctx context.Context, code, newCode, name string) (*model.Member, error)
	SoftDelete(ctx context.Context, code string) (*model.Member, error)
}

type Service interface {
	Create(ctx context.Context, code, name string) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	ByCode(ctx context.Context, code string) (*Member, error)
	// Update changes code/name; blank fields keep their value. The
	// borrowed_count and penalty_duration counters are owned by the
	// borrowing workflow and cannot be set here.
	Update(ctx context.Context, code, newCode, name string) (*Member, error)
	Delete(ctx context.Context, code string) (*Member, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, code, name string) (*Member, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, ErrInvalid
	}

	exists, err := s.r.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	m := &Member{Code: code, Name: name}
	if err := s.r.Create(ctx, m); err != nil {
		if errors.Is(err, repo.ErrDuplicateCode) {
			return nil, ErrCodeExists
		}
		return nil, err
	}
	return m, nil
}

func (s *service) List(ctx context.Context) ([]Member, error) { return s.r.List(ctx) }

func (s *service) ByCode(ctx context.Context, code string) (*Member, error) {
	m, err := s.r.ByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (s *service) Update(ctx context.Context, code, newCode, name string) (*Member, error) {
	code = strings.TrimSpace(code)
	cur, err := s.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	newCode = strings.TrimSpace(newCode)
	name = strings.TrimSpace(name)
	if newCode == "" {
		newCode = cur.Code
	}
	if name == "" {
		name = cur.Name
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

	m, err := s.r.Update(ctx, code, newCode, name)
	if errors.Is(err, repo.ErrDuplicateCode) {
		return nil, ErrCodeExists
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (s *service) Delete(ctx context.Context, code string) (*Member, error) {
	m, err := s.r.SoftDelete(ctx, strings.TrimSpace(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}
