package person

import (
	"time"

	"github.com/google/uuid"
)

// Person is the single source of truth for a human being in the system.
// Exactly one Person exists per email; patient and physician roles hang off
// it by reference.
type Person struct {
	ID        uuid.UUID `db:"person_id" json:"person_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest carries the attributes for a new person. Also embedded in
// the patient-creation payload.
type CreateRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateRequest carries a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	IsActive  *bool   `json:"is_active"`
}
