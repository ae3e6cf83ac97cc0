package callhistory

import (
	"time"

	"github.com/google/uuid"
)

// CallHistory records one navigator interaction with a patient: the booking,
// the call itself, and an optional reminder, plus the outcome.
type CallHistory struct {
	ID                  uuid.UUID  `db:"call_id" json:"call_id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	PNID                *uuid.UUID `db:"pn_id" json:"pn_id,omitempty"`
	BookingDate         *time.Time `db:"booking_date" json:"booking_date,omitempty"`
	CallDate            *time.Time `db:"call_date" json:"call_date,omitempty"`
	ReminderDate        *time.Time `db:"reminder_date" json:"reminder_date,omitempty"`
	NoShow              bool       `db:"no_show" json:"no_show"`
	CallDurationMinutes *int       `db:"call_duration_minutes" json:"call_duration_minutes,omitempty"`
	Outcome             *string    `db:"outcome" json:"outcome,omitempty"`
	Notes               *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// CreateRequest records a new call for an existing patient. PNID identifies
// the navigator (a person) who handled the call.
type CreateRequest struct {
	PatientID           uuid.UUID  `json:"patient_id" validate:"required"`
	PNID                *uuid.UUID `json:"pn_id"`
	BookingDate         *time.Time `json:"booking_date"`
	CallDate            *time.Time `json:"call_date"`
	ReminderDate        *time.Time `json:"reminder_date"`
	NoShow              bool       `json:"no_show"`
	CallDurationMinutes *int       `json:"call_duration_minutes" validate:"omitempty,gte=0"`
	Outcome             *string    `json:"outcome" validate:"omitempty,max=100"`
	Notes               *string    `json:"notes"`
}

// UpdateRequest carries a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	PNID                *uuid.UUID `json:"pn_id"`
	BookingDate         *time.Time `json:"booking_date"`
	CallDate            *time.Time `json:"call_date"`
	ReminderDate        *time.Time `json:"reminder_date"`
	NoShow              *bool      `json:"no_show"`
	CallDurationMinutes *int       `json:"call_duration_minutes" validate:"omitempty,gte=0"`
	Outcome             *string    `json:"outcome" validate:"omitempty,max=100"`
	Notes               *string    `json:"notes"`
}
