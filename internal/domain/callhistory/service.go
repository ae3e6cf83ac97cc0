package callhistory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/navcrm/navcrm/internal/domain/patient"
)

// ErrNotFound is returned when no call exists for the given id.
var ErrNotFound = errors.New("call history entry not found")

type Service struct {
	calls    Repository
	patients patient.Repository
}

func NewService(calls Repository, patients patient.Repository) *Service {
	return &Service{calls: calls, patients: patients}
}

// Create records a call. The referenced patient must exist.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*CallHistory, error) {
	if _, err := s.patients.GetByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, patient.ErrNotFound
		}
		return nil, err
	}

	ch := &CallHistory{
		PatientID:           req.PatientID,
		PNID:                req.PNID,
		BookingDate:         req.BookingDate,
		CallDate:            req.CallDate,
		ReminderDate:        req.ReminderDate,
		NoShow:              req.NoShow,
		CallDurationMinutes: req.CallDurationMinutes,
		Outcome:             req.Outcome,
		Notes:               req.Notes,
	}
	if err := s.calls.Create(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CallHistory, error) {
	ch, err := s.calls.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*CallHistory, int, error) {
	return s.calls.List(ctx, limit, offset)
}

// ListByPatient returns a page of the patient's calls, most recent first.
// The patient must exist.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CallHistory, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, patient.ErrNotFound
		}
		return nil, err
	}
	return s.calls.ListByPatient(ctx, patientID, limit, offset)
}

// Update applies only the fields present in the request.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*CallHistory, error) {
	ch, err := s.calls.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.PNID != nil {
		ch.PNID = req.PNID
	}
	if req.BookingDate != nil {
		ch.BookingDate = req.BookingDate
	}
	if req.CallDate != nil {
		ch.CallDate = req.CallDate
	}
	if req.ReminderDate != nil {
		ch.ReminderDate = req.ReminderDate
	}
	if req.NoShow != nil {
		ch.NoShow = *req.NoShow
	}
	if req.CallDurationMinutes != nil {
		ch.CallDurationMinutes = req.CallDurationMinutes
	}
	if req.Outcome != nil {
		ch.Outcome = req.Outcome
	}
	if req.Notes != nil {
		ch.Notes = req.Notes
	}

	if err := s.calls.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.calls.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
