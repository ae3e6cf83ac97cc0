package condition

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navcrm/navcrm/internal/platform/db"
)

var (
	// ErrNotFound is returned when no medical condition exists for the id.
	ErrNotFound = errors.New("medical condition not found")
	// ErrNameTaken is returned when a create or update collides with the
	// unique name constraint.
	ErrNameTaken = errors.New("medical condition name already exists")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*MedicalCondition, error) {
	mc := &MedicalCondition{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		Description:  req.Description,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, mc); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return mc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalCondition, error) {
	mc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return mc, err
}

func (s *Service) List(ctx context.Context, isActive *bool, limit, offset int) ([]*MedicalCondition, int, error) {
	return s.repo.List(ctx, isActive, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*MedicalCondition, error) {
	mc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		mc.Name = *req.Name
	}
	if req.Abbreviation != nil {
		mc.Abbreviation = req.Abbreviation
	}
	if req.Description != nil {
		mc.Description = req.Description
	}
	if req.IsActive != nil {
		mc.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, mc); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return mc, nil
}

// Delete soft-deletes: the condition stays fetchable with is_active=false so
// existing patient references remain valid.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
