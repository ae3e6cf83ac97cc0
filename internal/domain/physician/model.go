package physician

import (
	"time"

	"github.com/google/uuid"
)

// Physician links a person to their practice details. At most one physician
// record exists per person.
type Physician struct {
	ID                   uuid.UUID  `db:"physician_id" json:"physician_id"`
	PersonID             uuid.UUID  `db:"person_id" json:"person_id"`
	HospitalID           *uuid.UUID `db:"hospital_id" json:"hospital_id,omitempty"`
	JobTitle             *string    `db:"job_title" json:"job_title,omitempty"`
	MedicalLicenseNumber *string    `db:"medical_license_number" json:"medical_license_number,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	PersonID             uuid.UUID  `json:"person_id" validate:"required"`
	HospitalID           *uuid.UUID `json:"hospital_id"`
	JobTitle             *string    `json:"job_title" validate:"omitempty,max=200"`
	MedicalLicenseNumber *string    `json:"medical_license_number" validate:"omitempty,max=100"`
}

type UpdateRequest struct {
	HospitalID           *uuid.UUID `json:"hospital_id"`
	JobTitle             *string    `json:"job_title" validate:"omitempty,max=200"`
	MedicalLicenseNumber *string    `json:"medical_license_number" validate:"omitempty,max=100"`
}

// Hospital is a referral destination.
type Hospital struct {
	ID        uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name      string    `db:"name" json:"name"`
	City      *string   `db:"city" json:"city,omitempty"`
	Country   *string   `db:"country" json:"country,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type HospitalCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	Country *string `json:"country" validate:"omitempty,max=100"`
	Address *string `json:"address"`
}

type HospitalUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	Country *string `json:"country" validate:"omitempty,max=100"`
	Address *string `json:"address"`
}
