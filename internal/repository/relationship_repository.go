package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Relationship is a directed, degree-typed kinship edge. Uniqueness of
// (source_id, target_id, degree) is enforced by the store.
type Relationship struct {
	ID       int64  `json:"id"`
	SourceID int64  `json:"source_id"`
	TargetID int64  `json:"target_id"`
	Degree   string `json:"degree"`
}

type RelationshipRepository interface {
	Create(ctx context.Context, rel *Relationship) error
	FindByID(ctx context.Context, id int64) (*Relationship, error)
	FindBySource(ctx context.Context, sourceID int64) ([]*Relationship, error)
	FindByTarget(ctx context.Context, targetID int64) ([]*Relationship, error)
	FindAll(ctx context.Context, degree string, limit int) ([]*Relationship, error)
	Delete(ctx context.Context, id int64) error
}

type pgRelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewRelationshipRepository(pool *pgxpool.Pool) RelationshipRepository {
	return &pgRelationshipRepository{pool: pool}
}

func (r *pgRelationshipRepository) Create(ctx context.Context, rel *Relationship) error {
	query := `
		INSERT INTO membro_relacionamentos (source_id, target_id, degree)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, rel.SourceID, rel.TargetID, rel.Degree).Scan(&rel.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgRelationshipRepository) FindByID(ctx context.Context, id int64) (*Relationship, error) {
	rel := &Relationship{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, source_id, target_id, degree FROM membro_relacionamentos WHERE id = $1`, id).
		Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Degree)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *pgRelationshipRepository) FindBySource(ctx context.Context, sourceID int64) ([]*Relationship, error) {
	return r.query(ctx,
		`SELECT id, source_id, target_id, degree FROM membro_relacionamentos WHERE source_id = $1 ORDER BY id`,
		sourceID)
}

func (r *pgRelationshipRepository) FindByTarget(ctx context.Context, targetID int64) ([]*Relationship, error) {
	return r.query(ctx,
		`SELECT id, source_id, target_id, degree FROM membro_relacionamentos WHERE target_id = $1 ORDER BY id`,
		targetID)
}

func (r *pgRelationshipRepository) FindAll(ctx context.Context, degree string, limit int) ([]*Relationship, error) {
	if degree != "" {
		return r.query(ctx,
			`SELECT id, source_id, target_id, degree FROM membro_relacionamentos WHERE degree = $1 ORDER BY id LIMIT $2`,
			degree, limit)
	}
	return r.query(ctx,
		`SELECT id, source_id, target_id, degree FROM membro_relacionamentos ORDER BY id LIMIT $1`,
		limit)
}

func (r *pgRelationshipRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM membro_relacionamentos WHERE id = $1`, id)
	return err
}

func (r *pgRelationshipRepository) query(ctx context.Context, query string, args ...interface{}) ([]*Relationship, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []*Relationship
	for rows.Next() {
		rel := &Relationship{}
		if err := rows.Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Degree); err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}
