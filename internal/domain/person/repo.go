package person

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*Person, error)
	GetByEmail(ctx context.Context, email string) (*Person, error)
	Update(ctx context.Context, p *Person) error
	// SoftDelete flips is_active to false; the row is retained.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, isActive *bool, limit, offset int) ([]*Person, int, error)
}
