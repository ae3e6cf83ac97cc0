package condition

import (
	"time"

	"github.com/google/uuid"
)

// MedicalCondition is a normalized lookup entity referenced by patients.
// Rows are never physically removed, only deactivated.
type MedicalCondition struct {
	ID           uuid.UUID `db:"medical_condition_id" json:"medical_condition_id"`
	Name         string    `db:"name" json:"name"`
	Abbreviation *string   `db:"abbreviation" json:"abbreviation,omitempty"`
	Description  *string   `db:"description" json:"description,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Abbreviation *string `json:"abbreviation" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
}

type UpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Abbreviation *string `json:"abbreviation" validate:"omitempty,max=50"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"is_active"`
}
