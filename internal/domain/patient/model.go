package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/navcrm/navcrm/internal/domain/condition"
	"github.com/navcrm/navcrm/internal/domain/person"
)

// Patient represents a person engaged in a care journey. At most one Patient
// exists per Person (person_id is unique).
type Patient struct {
	ID                 uuid.UUID  `db:"patient_id" json:"patient_id"`
	PersonID           uuid.UUID  `db:"person_id" json:"person_id"`
	MedicalConditionID uuid.UUID  `db:"medical_condition_id" json:"medical_condition_id"`
	FirstContactDate   *Date      `db:"first_contact_date" json:"first_contact_date,omitempty"`
	InitialConsultDate *Date      `db:"initial_consult_date" json:"initial_consult_date,omitempty"`
	Status             string     `db:"status" json:"status"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`

	// Populated for response shaping; not stored on the patient row.
	Person           *person.Person              `db:"-" json:"person,omitempty"`
	MedicalCondition *condition.MedicalCondition `db:"-" json:"medical_condition,omitempty"`
}

// DefaultStatus is assigned when a creation request omits the status.
const DefaultStatus = "active"

// CreateRequest creates a patient bundled with person details. If a person
// with the given email already exists, that person is reused (returning
// patient) instead of creating a duplicate.
type CreateRequest struct {
	MedicalConditionID uuid.UUID            `json:"medical_condition_id" validate:"required"`
	FirstContactDate   *Date                `json:"first_contact_date"`
	InitialConsultDate *Date                `json:"initial_consult_date"`
	Status             string               `json:"status" validate:"omitempty,max=50"`
	Person             person.CreateRequest `json:"person" validate:"required"`
}

// CreateWithPersonIDRequest creates a patient for an already-registered person.
type CreateWithPersonIDRequest struct {
	MedicalConditionID uuid.UUID `json:"medical_condition_id" validate:"required"`
	FirstContactDate   *Date     `json:"first_contact_date"`
	InitialConsultDate *Date     `json:"initial_consult_date"`
	Status             string    `json:"status" validate:"omitempty,max=50"`
	PersonID           uuid.UUID `json:"person_id" validate:"required"`
}

// UpdateRequest carries a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	MedicalConditionID *uuid.UUID `json:"medical_condition_id"`
	FirstContactDate   *Date      `json:"first_contact_date"`
	InitialConsultDate *Date      `json:"initial_consult_date"`
	Status             *string    `json:"status" validate:"omitempty,max=50"`
}

// Date is a calendar date carried as "2006-01-02" on the wire and as a
// DATE column in the store.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// timePtr converts for store round-trips; pgx maps DATE to time.Time.
func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func dateFromTime(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}
