package callhistory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, ch *CallHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*CallHistory, error)
	Update(ctx context.Context, ch *CallHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*CallHistory, int, error)
	// ListByPatient returns a page of the patient's calls, most recent call
	// first, calls without a call date last.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CallHistory, error)
}
