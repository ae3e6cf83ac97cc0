package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navcrm/navcrm/internal/domain/condition"
	"github.com/navcrm/navcrm/internal/domain/person"
	"github.com/navcrm/navcrm/internal/platform/db"
)

var (
	// ErrNotFound is returned when no patient exists for the given id.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicate is returned when the resolved person already has a
	// patient record.
	ErrDuplicate = errors.New("patient already exists for person")
)

// Service owns the patient lifecycle, including the returning-patient
// reconciliation: a creation request is resolved to a new or existing person
// by email, and at most one patient may exist per person.
type Service struct {
	patients   Repository
	persons    person.Repository
	conditions condition.Repository
}

func NewService(patients Repository, persons person.Repository, conditions condition.Repository) *Service {
	return &Service{patients: patients, persons: persons, conditions: conditions}
}

// CreateFromPersonDetails creates a patient from a request carrying embedded
// person attributes. The medical condition must exist. A person with a
// matching email is reused; non-empty name/phone fields from the request are
// merged onto the existing record only after the duplicate guard passes, so a
// conflict leaves the person untouched. The whole operation runs in a single
// transaction.
func (s *Service) CreateFromPersonDetails(ctx context.Context, req *CreateRequest) (*Patient, error) {
	var created *Patient
	err := db.RunInTx(ctx, func(ctx context.Context) error {
		mc, err := s.conditions.GetByID(ctx, req.MedicalConditionID)
		if errors.Is(err, pgx.ErrNoRows) {
			return condition.ErrNotFound
		}
		if err != nil {
			return err
		}

		p, err := s.persons.GetByEmail(ctx, req.Person.Email)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			p = &person.Person{
				FirstName: req.Person.FirstName,
				LastName:  req.Person.LastName,
				Email:     req.Person.Email,
				Phone:     req.Person.Phone,
				IsActive:  true,
			}
			if err := s.persons.Create(ctx, p); err != nil {
				if db.IsUniqueViolation(err) {
					// Lost a race against a concurrent create for the
					// same email.
					return ErrDuplicate
				}
				return err
			}
		case err != nil:
			return err
		default:
			// Returning patient: guard before merging so a conflict
			// leaves the existing person untouched.
			if _, err := s.patients.GetByPersonID(ctx, p.ID); err == nil {
				return ErrDuplicate
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			if merged := mergePersonFields(p, &req.Person); merged {
				if err := s.persons.Update(ctx, p); err != nil {
					return err
				}
			}
		}

		pt := &Patient{
			PersonID:           p.ID,
			MedicalConditionID: req.MedicalConditionID,
			FirstContactDate:   req.FirstContactDate,
			InitialConsultDate: req.InitialConsultDate,
			Status:             req.Status,
		}
		if pt.Status == "" {
			pt.Status = DefaultStatus
		}
		if err := s.patients.Create(ctx, pt); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		pt.Person = p
		pt.MedicalCondition = mc
		created = pt
		return nil
	})
	return created, err
}

// CreateForExistingPerson creates a patient for a person supplied by id.
// No person fields are merged on this path.
func (s *Service) CreateForExistingPerson(ctx context.Context, req *CreateWithPersonIDRequest) (*Patient, error) {
	var created *Patient
	err := db.RunInTx(ctx, func(ctx context.Context) error {
		mc, err := s.conditions.GetByID(ctx, req.MedicalConditionID)
		if errors.Is(err, pgx.ErrNoRows) {
			return condition.ErrNotFound
		}
		if err != nil {
			return err
		}

		p, err := s.persons.GetByID(ctx, req.PersonID)
		if errors.Is(err, pgx.ErrNoRows) {
			return person.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := s.patients.GetByPersonID(ctx, p.ID); err == nil {
			return ErrDuplicate
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		pt := &Patient{
			PersonID:           p.ID,
			MedicalConditionID: req.MedicalConditionID,
			FirstContactDate:   req.FirstContactDate,
			InitialConsultDate: req.InitialConsultDate,
			Status:             req.Status,
		}
		if pt.Status == "" {
			pt.Status = DefaultStatus
		}
		if err := s.patients.Create(ctx, pt); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		pt.Person = p
		pt.MedicalCondition = mc
		created = pt
		return nil
	})
	return created, err
}

// mergePersonFields overwrites only the fields the request supplied non-empty
// values for, and reports whether anything changed.
func mergePersonFields(p *person.Person, req *person.CreateRequest) bool {
	changed := false
	if req.FirstName != "" && req.FirstName != p.FirstName {
		p.FirstName = req.FirstName
		changed = true
	}
	if req.LastName != "" && req.LastName != p.LastName {
		p.LastName = req.LastName
		changed = true
	}
	if req.Phone != nil && *req.Phone != "" {
		if p.Phone == nil || *p.Phone != *req.Phone {
			p.Phone = req.Phone
			changed = true
		}
	}
	return changed
}

// Get returns the patient with its linked person and condition attached.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	pt, err := s.patients.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *Service) attachRelations(ctx context.Context, pt *Patient) error {
	p, err := s.persons.GetByID(ctx, pt.PersonID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	pt.Person = p

	mc, err := s.conditions.GetByID(ctx, pt.MedicalConditionID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	pt.MedicalCondition = mc
	return nil
}

// List returns a page of patients plus the total matching count.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, pt := range items {
		if err := s.attachRelations(ctx, pt); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// Update applies only the fields present in the request. A supplied medical
// condition id must reference an existing condition.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Patient, error) {
	var updated *Patient
	err := db.RunInTx(ctx, func(ctx context.Context) error {
		pt, err := s.patients.GetByID(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if req.MedicalConditionID != nil {
			if _, err := s.conditions.GetByID(ctx, *req.MedicalConditionID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return condition.ErrNotFound
				}
				return err
			}
			pt.MedicalConditionID = *req.MedicalConditionID
		}
		if req.FirstContactDate != nil {
			pt.FirstContactDate = req.FirstContactDate
		}
		if req.InitialConsultDate != nil {
			pt.InitialConsultDate = req.InitialConsultDate
		}
		if req.Status != nil {
			pt.Status = *req.Status
		}

		if err := s.patients.Update(ctx, pt); err != nil {
			return err
		}
		if err := s.attachRelations(ctx, pt); err != nil {
			return err
		}
		updated = pt
		return nil
	})
	return updated, err
}

// Delete physically removes the patient row.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.patients.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
