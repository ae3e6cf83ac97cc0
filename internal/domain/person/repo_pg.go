package person

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

type personRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &personRepoPG{pool: pool}
}

func (r *personRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const personCols = `person_id, first_name, last_name, email, phone, is_active, created_at, updated_at`

func (r *personRepoPG) scanRow(row pgx.Row) (*Person, error) {
	var p Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personRepoPG) Create(ctx context.Context, p *Person) error {
	p.ID = uuid.New()
	return r.scanInto(p, r.conn(ctx).QueryRow(ctx, `
		INSERT INTO person (person_id, first_name, last_name, email, phone, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+personCols,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.IsActive))
}

func (r *personRepoPG) scanInto(p *Person, row pgx.Row) error {
	return row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *personRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Person, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+personCols+` FROM person WHERE person_id = $1`, id))
}

func (r *personRepoPG) GetByEmail(ctx context.Context, email string) (*Person, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+personCols+` FROM person WHERE email = $1`, email))
}

func (r *personRepoPG) Update(ctx context.Context, p *Person) error {
	return r.scanInto(p, r.conn(ctx).QueryRow(ctx, `
		UPDATE person
		SET first_name=$2, last_name=$3, email=$4, phone=$5, is_active=$6, updated_at=NOW()
		WHERE person_id = $1
		RETURNING `+personCols,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.IsActive))
}

func (r *personRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE person SET is_active = FALSE, updated_at = NOW() WHERE person_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personRepoPG) List(ctx context.Context, isActive *bool, limit, offset int) ([]*Person, int, error) {
	where := ``
	args := []interface{}{}
	if isActive != nil {
		where = ` WHERE is_active = $1`
		args = append(args, *isActive)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM person`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+personCols+` FROM person`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Person
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
