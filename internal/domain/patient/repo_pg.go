package patient

import (
	"context"
	"fmt"
	"time"

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

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `patient_id, person_id, medical_condition_id, first_contact_date, initial_consult_date, status, created_at, updated_at`

func (r *patientRepoPG) scanInto(p *Patient, row pgx.Row) error {
	var firstContact, initialConsult *time.Time
	err := row.Scan(&p.ID, &p.PersonID, &p.MedicalConditionID,
		&firstContact, &initialConsult, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.FirstContactDate = dateFromTime(firstContact)
	p.InitialConsultDate = dateFromTime(initialConsult)
	return nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.scanInto(p, r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (patient_id, person_id, medical_condition_id, first_contact_date, initial_consult_date, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+patientCols,
		p.ID, p.PersonID, p.MedicalConditionID,
		p.FirstContactDate.timePtr(), p.InitialConsultDate.timePtr(), p.Status))
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.scanInto(&p, r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) GetByPersonID(ctx context.Context, personID uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.scanInto(&p, r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE person_id = $1`, personID))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	return r.scanInto(p, r.conn(ctx).QueryRow(ctx, `
		UPDATE patient
		SET medical_condition_id=$2, first_contact_date=$3, initial_consult_date=$4, status=$5, updated_at=NOW()
		WHERE patient_id = $1
		RETURNING `+patientCols,
		p.ID, p.MedicalConditionID,
		p.FirstContactDate.timePtr(), p.InitialConsultDate.timePtr(), p.Status))
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE patient_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	where := ``
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.MedicalConditionID != nil {
		args = append(args, *filter.MedicalConditionID)
		where += fmt.Sprintf(" AND medical_condition_id = $%d", len(args))
	}
	if where != "" {
		where = " WHERE" + where[4:]
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+patientCols+` FROM patient`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		var p Patient
		if err := r.scanInto(&p, rows); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}
