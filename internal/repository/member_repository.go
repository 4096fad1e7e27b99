package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Membro struct {
	ID                     int64      `db:"id" json:"id"`
	Nome                   *string    `db:"nome" json:"nome"`
	Sexo                   *string    `db:"sexo" json:"sexo"`
	Concurso               *string    `db:"concurso" json:"concurso"`
	CargoEfetivo           *string    `db:"cargo_efetivo" json:"cargo_efetivo"`
	Titularidade           *string    `db:"titularidade" json:"titularidade"`
	EmailPessoal           *string    `db:"email_pessoal" json:"email_pessoal"`
	CargoEspecial          *string    `db:"cargo_especial" json:"cargo_especial"`
	TelefoneUnidade        *string    `db:"telefone_unidade" json:"telefone_unidade"`
	TelefoneCelular        *string    `db:"telefone_celular" json:"telefone_celular"`
	UnidadeLotacao         *string    `db:"unidade_lotacao" json:"unidade_lotacao"`
	ComarcaLotacao         *string    `db:"comarca_lotacao" json:"comarca_lotacao"`
	TimeExtraprofissionais *string    `db:"time_extraprofissionais" json:"time_extraprofissionais"`
	QuantidadeFilhos       *int       `db:"quantidade_filhos" json:"quantidade_filhos"`
	NomesFilhos            *string    `db:"nomes_filhos" json:"nomes_filhos"`
	EstadoOrigem           *string    `db:"estado_origem" json:"estado_origem"`
	Academico              *string    `db:"academico" json:"academico"`
	PretensaoCarreira      *string    `db:"pretensao_carreira" json:"pretensao_carreira"`
	CarreiraAnterior       *string    `db:"carreira_anterior" json:"carreira_anterior"`
	Lideranca              *string    `db:"lideranca" json:"lideranca"`
	GruposIdentitarios     *string    `db:"grupos_identitarios" json:"grupos_identitarios"`
	DataInclusao           *time.Time `db:"data_inclusao" json:"-"`
	Observacao             *string    `db:"observacao" json:"observacao"`
	FotoPath               *string    `db:"foto_path" json:"foto_path"`
}

const membroColumns = `id, nome, sexo, concurso, cargo_efetivo, titularidade, email_pessoal,
	cargo_especial, telefone_unidade, telefone_celular, unidade_lotacao, comarca_lotacao,
	time_extraprofissionais, quantidade_filhos, nomes_filhos, estado_origem, academico,
	pretensao_carreira, carreira_anterior, lideranca, grupos_identitarios, data_inclusao,
	observacao, foto_path`

// ValueCount is one aggregation bucket.
type ValueCount struct {
	Value string `db:"value" json:"value"`
	Count int    `db:"count" json:"count"`
}

// MemberStats holds the raw counters behind the stats endpoint.
type MemberStats struct {
	Total       int `db:"total"`
	FemaleCount int `db:"female_count"`
}

type MemberRepository interface {
	Create(ctx context.Context, m *Membro) error
	FindByID(ctx context.Context, id int64) (*Membro, error)
	Find(ctx context.Context, filter *MemberFilter, limit, offset int) ([]*Membro, int, error)
	Update(ctx context.Context, id int64, sets map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	SetFotoPath(ctx context.Context, id int64, path string) error

	Aggregate(ctx context.Context, column string, filter *MemberFilter, limit int) ([]ValueCount, error)
	Stats(ctx context.Context, filter *MemberFilter) (*MemberStats, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	Suggest(ctx context.Context, column, q string, limit int) ([]string, error)

	FriendIDs(ctx context.Context, id int64) ([]int64, error)
	SyncFriends(ctx context.Context, id int64, toAdd, toRemove []int64) error
	FindFriends(ctx context.Context, id int64) ([]*Membro, error)
}

type sqlxMemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &sqlxMemberRepository{db: db}
}

func (r *sqlxMemberRepository) Create(ctx context.Context, m *Membro) error {
	query := `
		INSERT INTO membros (nome, sexo, concurso, cargo_efetivo, titularidade, email_pessoal,
			cargo_especial, telefone_unidade, telefone_celular, unidade_lotacao, comarca_lotacao,
			time_extraprofissionais, quantidade_filhos, nomes_filhos, estado_origem, academico,
			pretensao_carreira, carreira_anterior, lideranca, grupos_identitarios, data_inclusao,
			observacao)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, query,
		m.Nome, m.Sexo, m.Concurso, m.CargoEfetivo, m.Titularidade, m.EmailPessoal,
		m.CargoEspecial, m.TelefoneUnidade, m.TelefoneCelular, m.UnidadeLotacao, m.ComarcaLotacao,
		m.TimeExtraprofissionais, m.QuantidadeFilhos, m.NomesFilhos, m.EstadoOrigem, m.Academico,
		m.PretensaoCarreira, m.CarreiraAnterior, m.Lideranca, m.GruposIdentitarios, m.DataInclusao,
		m.Observacao,
	).Scan(&m.ID)
}

func (r *sqlxMemberRepository) FindByID(ctx context.Context, id int64) (*Membro, error) {
	m := &Membro{}
	err := r.db.GetContext(ctx, m, `SELECT `+membroColumns+` FROM membros WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *sqlxMemberRepository) Find(ctx context.Context, filter *MemberFilter, limit, offset int) ([]*Membro, int, error) {
	where, args := filter.BuildWhere()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM membros`+where, args...); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + membroColumns + ` FROM membros` + where +
		` ORDER BY nome ASC NULLS LAST, id ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	var membros []*Membro
	if err := r.db.SelectContext(ctx, &membros, query, args...); err != nil {
		return nil, 0, err
	}
	return membros, total, nil
}

// Update applies a dynamic SET over allowlisted columns only. Callers
// resolve field keys through FieldColumn before building sets.
func (r *sqlxMemberRepository) Update(ctx context.Context, id int64, sets map[string]interface{}) error {
	if len(sets) == 0 {
		return nil
	}
	cols := make([]string, 0, len(sets))
	for col := range sets {
		cols = append(cols, col)
	}
	// Deterministic statement text helps the prepared-statement cache.
	sort.Strings(cols)

	assigns := make([]string, 0, len(cols))
	args := []interface{}{id}
	for i, col := range cols {
		assigns = append(assigns, col+" = $"+strconv.Itoa(i+2))
		args = append(args, sets[col])
	}
	query := `UPDATE membros SET ` + strings.Join(assigns, ", ") + ` WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *sqlxMemberRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM membros WHERE id = $1`, id)
	return err
}

func (r *sqlxMemberRepository) SetFotoPath(ctx context.Context, id int64, path string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE membros SET foto_path = $2 WHERE id = $1`, id, path)
	return err
}

func (r *sqlxMemberRepository) Aggregate(ctx context.Context, column string, filter *MemberFilter, limit int) ([]ValueCount, error) {
	where, args := filter.BuildWhere()
	n := strconv.Itoa(len(args) + 1)
	query := `
		SELECT v AS value, COUNT(*) AS count
		FROM (SELECT NULLIF(BTRIM(` + column + `::text), '') AS v FROM membros` + where + `) sub
		WHERE v IS NOT NULL
		GROUP BY v
		ORDER BY count DESC, v ASC
		LIMIT $` + n
	args = append(args, limit)

	var out []ValueCount
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqlxMemberRepository) Stats(ctx context.Context, filter *MemberFilter) (*MemberStats, error) {
	where, args := filter.BuildWhere()
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE LOWER(BTRIM(sexo)) = 'feminino') AS female_count
		FROM membros` + where
	stats := &MemberStats{}
	if err := r.db.GetContext(ctx, stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *sqlxMemberRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	query := `
		SELECT DISTINCT BTRIM(` + column + `::text) AS v
		FROM membros
		WHERE ` + column + ` IS NOT NULL AND BTRIM(` + column + `::text) <> ''
		ORDER BY v ASC`
	var values []string
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, err
	}
	return values, nil
}

func (r *sqlxMemberRepository) Suggest(ctx context.Context, column, q string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT BTRIM(` + column + `::text) AS v
		FROM membros
		WHERE ` + column + `::text ILIKE $1 AND BTRIM(` + column + `::text) <> ''
		ORDER BY v ASC
		LIMIT $2`
	var values []string
	if err := r.db.SelectContext(ctx, &values, query, "%"+q+"%", limit); err != nil {
		return nil, err
	}
	return values, nil
}

// FriendIDs returns the outbound edge set only; this is the state the
// synchronizer diffs against.
func (r *sqlxMemberRepository) FriendIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT amigo_id FROM membro_amigos WHERE membro_id = $1 ORDER BY amigo_id`, id)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SyncFriends applies a computed delta in one transaction, removals
// before additions. Edges are stored from the member's side only.
func (r *sqlxMemberRepository) SyncFriends(ctx context.Context, id int64, toAdd, toRemove []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(toRemove) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM membro_amigos WHERE membro_id = $1 AND amigo_id = ANY($2)`,
			id, pq.Array(toRemove)); err != nil {
			return err
		}
	}
	for _, friendID := range toAdd {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO membro_amigos (membro_id, amigo_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, friendID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FindFriends reads the edge set in both directions: insertion is
// one-sided, so a symmetric view needs the union.
func (r *sqlxMemberRepository) FindFriends(ctx context.Context, id int64) ([]*Membro, error) {
	query := `
		SELECT ` + membroColumns + ` FROM membros WHERE id IN (
			SELECT amigo_id FROM membro_amigos WHERE membro_id = $1
			UNION
			SELECT membro_id FROM membro_amigos WHERE amigo_id = $1
		)
		ORDER BY nome ASC NULLS LAST`
	var friends []*Membro
	if err := r.db.SelectContext(ctx, &friends, query, id); err != nil {
		return nil, err
	}
	return friends, nil
}
