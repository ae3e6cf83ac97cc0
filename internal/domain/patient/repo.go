package patient

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a paged patient listing.
type ListFilter struct {
	Status             *string
	MedicalConditionID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// GetByPersonID resolves the at-most-one patient attached to a person.
	GetByPersonID(ctx context.Context, personID uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	// Delete physically removes the row.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error)
}
