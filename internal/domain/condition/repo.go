package condition

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, mc *MedicalCondition) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalCondition, error)
	Update(ctx context.Context, mc *MedicalCondition) error
	// SoftDelete flips is_active to false; the row is retained.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, isActive *bool, limit, offset int) ([]*MedicalCondition, int, error)
}
