package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// HistoryEntry records one assignment of a member to a unit/venue at a
// point in time. Entries are returned ordered by date then id.
type HistoryEntry struct {
	ID               int64      `db:"id" json:"id"`
	MembroID         int64      `db:"membro_id" json:"membro_id"`
	DataMovimentacao *time.Time `db:"data_movimentacao" json:"-"`
	UnidadeLotacao   *string    `db:"unidade_lotacao" json:"unidade_lotacao"`
	ComarcaLotacao   *string    `db:"comarca_lotacao" json:"comarca_lotacao"`
}

type HistoryRepository interface {
	Create(ctx context.Context, h *HistoryEntry) error
	FindByID(ctx context.Context, id int64) (*HistoryEntry, error)
	FindByMember(ctx context.Context, membroID int64) ([]*HistoryEntry, error)
	Update(ctx context.Context, h *HistoryEntry) error
	Delete(ctx context.Context, id int64) error
}

type sqlxHistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &sqlxHistoryRepository{db: db}
}

func (r *sqlxHistoryRepository) Create(ctx context.Context, h *HistoryEntry) error {
	query := `
		INSERT INTO membro_historico (membro_id, data_movimentacao, unidade_lotacao, comarca_lotacao)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, query,
		h.MembroID, h.DataMovimentacao, h.UnidadeLotacao, h.ComarcaLotacao).Scan(&h.ID)
}

func (r *sqlxHistoryRepository) FindByID(ctx context.Context, id int64) (*HistoryEntry, error) {
	h := &HistoryEntry{}
	err := r.db.GetContext(ctx, h,
		`SELECT id, membro_id, data_movimentacao, unidade_lotacao, comarca_lotacao
		 FROM membro_historico WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *sqlxHistoryRepository) FindByMember(ctx context.Context, membroID int64) ([]*HistoryEntry, error) {
	var entries []*HistoryEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, membro_id, data_movimentacao, unidade_lotacao, comarca_lotacao
		 FROM membro_historico WHERE membro_id = $1
		 ORDER BY data_movimentacao ASC NULLS FIRST, id ASC`, membroID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqlxHistoryRepository) Update(ctx context.Context, h *HistoryEntry) error {
	query := `
		UPDATE membro_historico
		SET data_movimentacao = $2, unidade_lotacao = $3, comarca_lotacao = $4
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, h.ID, h.DataMovimentacao, h.UnidadeLotacao, h.ComarcaLotacao)
	return err
}

func (r *sqlxHistoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM membro_historico WHERE id = $1`, id)
	return err
}
