package repository

import (
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// ErrDuplicate is returned when an insert or update would violate a
// uniqueness constraint (lookup type/value, relationship triple).
var ErrDuplicate = errors.New("duplicate record")

type Repositories struct {
	// Core repositories (pgxpool)
	UserRepo         UserRepository
	LookupRepo       LookupRepository
	RelationshipRepo RelationshipRepository

	// Member-related repositories (sqlx over the pgx stdlib driver;
	// the dynamic filter builder works against database/sql).
	MemberRepo  MemberRepository
	HistoryRepo HistoryRepository
}

func NewRepositories(pool *pgxpool.Pool, db *sqlx.DB) *Repositories {
	return &Repositories{
		UserRepo:         NewUserRepository(pool),
		LookupRepo:       NewLookupRepository(pool),
		RelationshipRepo: NewRelationshipRepository(pool),

		MemberRepo:  NewMemberRepository(db),
		HistoryRepo: NewHistoryRepository(db),
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
