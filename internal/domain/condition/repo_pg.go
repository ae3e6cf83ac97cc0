package condition

import (
	"context"
	"fmt"

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

type conditionRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &conditionRepoPG{pool: pool}
}

func (r *conditionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const conditionCols = `medical_condition_id, name, abbreviation, description, is_active, created_at, updated_at`

func (r *conditionRepoPG) scanInto(mc *MedicalCondition, row pgx.Row) error {
	return row.Scan(&mc.ID, &mc.Name, &mc.Abbreviation, &mc.Description,
		&mc.IsActive, &mc.CreatedAt, &mc.UpdatedAt)
}

func (r *conditionRepoPG) Create(ctx context.Context, mc *MedicalCondition) error {
	mc.ID = uuid.New()
	return r.scanInto(mc, r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_condition (medical_condition_id, name, abbreviation, description, is_active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+conditionCols,
		mc.ID, mc.Name, mc.Abbreviation, mc.Description, mc.IsActive))
}

func (r *conditionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalCondition, error) {
	var mc MedicalCondition
	err := r.scanInto(&mc, r.conn(ctx).QueryRow(ctx,
		`SELECT `+conditionCols+` FROM medical_condition WHERE medical_condition_id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

func (r *conditionRepoPG) Update(ctx context.Context, mc *MedicalCondition) error {
	return r.scanInto(mc, r.conn(ctx).QueryRow(ctx, `
		UPDATE medical_condition
		SET name=$2, abbreviation=$3, description=$4, is_active=$5, updated_at=NOW()
		WHERE medical_condition_id = $1
		RETURNING `+conditionCols,
		mc.ID, mc.Name, mc.Abbreviation, mc.Description, mc.IsActive))
}

func (r *conditionRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medical_condition SET is_active = FALSE, updated_at = NOW() WHERE medical_condition_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *conditionRepoPG) List(ctx context.Context, isActive *bool, limit, offset int) ([]*MedicalCondition, int, error) {
	where := ``
	args := []interface{}{}
	if isActive != nil {
		where = ` WHERE is_active = $1`
		args = append(args, *isActive)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_condition`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+conditionCols+` FROM medical_condition`+where+
		` ORDER BY name ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*MedicalCondition
	for rows.Next() {
		var mc MedicalCondition
		if err := r.scanInto(&mc, rows); err != nil {
			return nil, 0, err
		}
		items = append(items, &mc)
	}
	return items, total, rows.Err()
}
