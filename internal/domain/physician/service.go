package physician

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navcrm/navcrm/internal/domain/person"
	"github.com/navcrm/navcrm/internal/platform/db"
)

var (
	// ErrNotFound is returned when no physician exists for the given id.
	ErrNotFound = errors.New("physician not found")
	// ErrPersonTaken is returned when the person already has a physician record.
	ErrPersonTaken = errors.New("physician already exists for person")
	// ErrHospitalNotFound is returned when a referenced hospital does not exist.
	ErrHospitalNotFound = errors.New("hospital not found")
)

type Service struct {
	physicians Repository
	hospitals  HospitalRepository
	persons    person.Repository
}

func NewService(physicians Repository, hospitals HospitalRepository, persons person.Repository) *Service {
	return &Service{physicians: physicians, hospitals: hospitals, persons: persons}
}

// Create registers a physician for an existing person. A referenced hospital
// must exist.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Physician, error) {
	if _, err := s.persons.GetByID(ctx, req.PersonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, person.ErrNotFound
		}
		return nil, err
	}
	if req.HospitalID != nil {
		if _, err := s.hospitals.GetByID(ctx, *req.HospitalID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrHospitalNotFound
			}
			return nil, err
		}
	}

	p := &Physician{
		PersonID:             req.PersonID,
		HospitalID:           req.HospitalID,
		JobTitle:             req.JobTitle,
		MedicalLicenseNumber: req.MedicalLicenseNumber,
	}
	if err := s.physicians.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrPersonTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Physician, error) {
	p, err := s.physicians.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Physician, int, error) {
	return s.physicians.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Physician, error) {
	p, err := s.physicians.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.HospitalID != nil {
		if _, err := s.hospitals.GetByID(ctx, *req.HospitalID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrHospitalNotFound
			}
			return nil, err
		}
		p.HospitalID = req.HospitalID
	}
	if req.JobTitle != nil {
		p.JobTitle = req.JobTitle
	}
	if req.MedicalLicenseNumber != nil {
		p.MedicalLicenseNumber = req.MedicalLicenseNumber
	}

	if err := s.physicians.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.physicians.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateHospital registers a referral hospital.
func (s *Service) CreateHospital(ctx context.Context, req *HospitalCreateRequest) (*Hospital, error) {
	h := &Hospital{
		Name:    req.Name,
		City:    req.City,
		Country: req.Country,
		Address: req.Address,
	}
	if err := s.hospitals.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHospitalNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

func (s *Service) UpdateHospital(ctx context.Context, id uuid.UUID, req *HospitalUpdateRequest) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrHospitalNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.City != nil {
		h.City = req.City
	}
	if req.Country != nil {
		h.Country = req.Country
	}
	if req.Address != nil {
		h.Address = req.Address
	}

	if err := s.hospitals.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	err := s.hospitals.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrHospitalNotFound
	}
	return err
}
