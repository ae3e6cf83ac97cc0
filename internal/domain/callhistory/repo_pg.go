package callhistory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navcrm/navcrm/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type callHistoryRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &callHistoryRepoPG{pool: pool}
}

func (r *callHistoryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const callCols = `call_id, patient_id, pn_id, booking_date, call_date, reminder_date, no_show, call_duration_minutes, outcome, notes, created_at`

func scanInto(ch *CallHistory, row pgx.Row) error {
	return row.Scan(&ch.ID, &ch.PatientID, &ch.PNID,
		&ch.BookingDate, &ch.CallDate, &ch.ReminderDate,
		&ch.NoShow, &ch.CallDurationMinutes, &ch.Outcome, &ch.Notes, &ch.CreatedAt)
}

func (r *callHistoryRepoPG) Create(ctx context.Context, ch *CallHistory) error {
	ch.ID = uuid.New()
	return scanInto(ch, r.conn(ctx).QueryRow(ctx, `
		INSERT INTO call_history (call_id, patient_id, pn_id, booking_date, call_date, reminder_date, no_show, call_duration_minutes, outcome, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+callCols,
		ch.ID, ch.PatientID, ch.PNID,
		ch.BookingDate, ch.CallDate, ch.ReminderDate,
		ch.NoShow, ch.CallDurationMinutes, ch.Outcome, ch.Notes))
}

func (r *callHistoryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CallHistory, error) {
	var ch CallHistory
	err := scanInto(&ch, r.conn(ctx).QueryRow(ctx,
		`SELECT `+callCols+` FROM call_history WHERE call_id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *callHistoryRepoPG) Update(ctx context.Context, ch *CallHistory) error {
	return scanInto(ch, r.conn(ctx).QueryRow(ctx, `
		UPDATE call_history
		SET pn_id=$2, booking_date=$3, call_date=$4, reminder_date=$5, no_show=$6, call_duration_minutes=$7, outcome=$8, notes=$9
		WHERE call_id = $1
		RETURNING `+callCols,
		ch.ID, ch.PNID,
		ch.BookingDate, ch.CallDate, ch.ReminderDate,
		ch.NoShow, ch.CallDurationMinutes, ch.Outcome, ch.Notes))
}

func (r *callHistoryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM call_history WHERE call_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *callHistoryRepoPG) List(ctx context.Context, limit, offset int) ([]*CallHistory, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM call_history`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+callCols+` FROM call_history ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *callHistoryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*CallHistory, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+callCols+` FROM call_history WHERE patient_id = $1 ORDER BY call_date DESC NULLS LAST LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*CallHistory, error) {
	var items []*CallHistory
	for rows.Next() {
		var ch CallHistory
		if err := scanInto(&ch, rows); err != nil {
			return nil, err
		}
		items = append(items, &ch)
	}
	return items, rows.Err()
}
