package person

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navcrm/navcrm/internal/platform/db"
)

var (
	// ErrNotFound is returned when no person exists for the given identifier.
	ErrNotFound = errors.New("person not found")
	// ErrEmailTaken is returned when a create or update collides with the
	// unique email constraint.
	ErrEmailTaken = errors.New("email already registered to another person")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Person, error) {
	p := &Person{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *Service) List(ctx context.Context, isActive *bool, limit, offset int) ([]*Person, int, error) {
	return s.repo.List(ctx, isActive, limit, offset)
}

// Update applies only the fields present in the request; nil fields keep
// their stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes: the row stays fetchable with is_active=false.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
