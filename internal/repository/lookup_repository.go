package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Lookup struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type LookupRepository interface {
	List(ctx context.Context, lookupType, q string, limit, offset int) ([]*Lookup, int, error)
	FindByID(ctx context.Context, id int64) (*Lookup, error)
	FindByTypeValue(ctx context.Context, lookupType, value string) (*Lookup, error)
	Create(ctx context.Context, lk *Lookup) error
	UpdateValue(ctx context.Context, id int64, value string) error
	Delete(ctx context.Context, id int64) error
}

type pgLookupRepository struct {
	pool *pgxpool.Pool
}

func NewLookupRepository(pool *pgxpool.Pool) LookupRepository {
	return &pgLookupRepository{pool: pool}
}

func (r *pgLookupRepository) List(ctx context.Context, lookupType, q string, limit, offset int) ([]*Lookup, int, error) {
	where := ` WHERE type = $1`
	args := []interface{}{lookupType}
	if q != "" {
		where += ` AND value ILIKE $2`
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lookups`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, type, value FROM lookups` + where + ` ORDER BY value ASC LIMIT $` +
		itoa(len(args)+1) + ` OFFSET $` + itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lookups []*Lookup
	for rows.Next() {
		lk := &Lookup{}
		if err := rows.Scan(&lk.ID, &lk.Type, &lk.Value); err != nil {
			return nil, 0, err
		}
		lookups = append(lookups, lk)
	}
	return lookups, total, rows.Err()
}

func (r *pgLookupRepository) FindByID(ctx context.Context, id int64) (*Lookup, error) {
	lk := &Lookup{}
	err := r.pool.QueryRow(ctx, `SELECT id, type, value FROM lookups WHERE id = $1`, id).
		Scan(&lk.ID, &lk.Type, &lk.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lk, nil
}

func (r *pgLookupRepository) FindByTypeValue(ctx context.Context, lookupType, value string) (*Lookup, error) {
	lk := &Lookup{}
	err := r.pool.QueryRow(ctx, `SELECT id, type, value FROM lookups WHERE type = $1 AND value = $2`,
		lookupType, value).Scan(&lk.ID, &lk.Type, &lk.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lk, nil
}

func (r *pgLookupRepository) Create(ctx context.Context, lk *Lookup) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO lookups (type, value) VALUES ($1, $2) RETURNING id`,
		lk.Type, lk.Value).Scan(&lk.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgLookupRepository) UpdateValue(ctx context.Context, id int64, value string) error {
	_, err := r.pool.Exec(ctx, `UPDATE lookups SET value = $2 WHERE id = $1`, id, value)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgLookupRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lookups WHERE id = $1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
