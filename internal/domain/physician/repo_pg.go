package physician

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

type physicianRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &physicianRepoPG{pool: pool}
}

const physicianCols = `physician_id, person_id, hospital_id, job_title, medical_license_number, created_at, updated_at`

func scanPhysician(p *Physician, row pgx.Row) error {
	return row.Scan(&p.ID, &p.PersonID, &p.HospitalID,
		&p.JobTitle, &p.MedicalLicenseNumber, &p.CreatedAt, &p.UpdatedAt)
}

func (r *physicianRepoPG) Create(ctx context.Context, p *Physician) error {
	p.ID = uuid.New()
	return scanPhysician(p, conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO physician (physician_id, person_id, hospital_id, job_title, medical_license_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+physicianCols,
		p.ID, p.PersonID, p.HospitalID, p.JobTitle, p.MedicalLicenseNumber))
}

func (r *physicianRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Physician, error) {
	var p Physician
	err := scanPhysician(&p, conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+physicianCols+` FROM physician WHERE physician_id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *physicianRepoPG) Update(ctx context.Context, p *Physician) error {
	return scanPhysician(p, conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE physician
		SET hospital_id=$2, job_title=$3, medical_license_number=$4, updated_at=NOW()
		WHERE physician_id = $1
		RETURNING `+physicianCols,
		p.ID, p.HospitalID, p.JobTitle, p.MedicalLicenseNumber))
}

func (r *physicianRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM physician WHERE physician_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *physicianRepoPG) List(ctx context.Context, limit, offset int) ([]*Physician, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM physician`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+physicianCols+` FROM physician ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Physician
	for rows.Next() {
		var p Physician
		if err := scanPhysician(&p, rows); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

type hospitalRepoPG struct{ pool *pgxpool.Pool }

func NewHospitalRepoPG(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepoPG{pool: pool}
}

const hospitalCols = `hospital_id, name, city, country, address, created_at, updated_at`

func scanHospital(h *Hospital, row pgx.Row) error {
	return row.Scan(&h.ID, &h.Name, &h.City, &h.Country, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	return scanHospital(h, conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO hospital (hospital_id, name, city, country, address)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+hospitalCols,
		h.ID, h.Name, h.City, h.Country, h.Address))
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	var h Hospital
	err := scanHospital(&h, conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+hospitalCols+` FROM hospital WHERE hospital_id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	return scanHospital(h, conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE hospital
		SET name=$2, city=$3, country=$4, address=$5, updated_at=NOW()
		WHERE hospital_id = $1
		RETURNING `+hospitalCols,
		h.ID, h.Name, h.City, h.Country, h.Address))
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM hospital WHERE hospital_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+hospitalCols+` FROM hospital ORDER BY name ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Hospital
	for rows.Next() {
		var h Hospital
		if err := scanHospital(&h, rows); err != nil {
			return nil, 0, err
		}
		items = append(items, &h)
	}
	return items, total, rows.Err()
}
