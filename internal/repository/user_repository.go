package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	Role             string
	Phone            *string
	Active           bool
	TwoFactorEnabled bool
	ResetCode        *string
	ResetExpiresAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByResetCode(ctx context.Context, code string) (*User, error)
	Search(ctx context.Context, q string, limit int) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetResetCode(ctx context.Context, id int64, code string, expiresAt time.Time) error
	ClearResetCode(ctx context.Context, id int64) error
	PurgeExpiredResetCodes(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, phone, active, two_factor_enabled,
	reset_code, reset_expires_at, created_at, updated_at`

func (r *pgUserRepository) scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.Phone,
		&user.Active, &user.TwoFactorEnabled, &user.ResetCode, &user.ResetExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone, active, two_factor_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Phone,
		user.Active, user.TwoFactorEnabled,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *pgUserRepository) FindByResetCode(ctx context.Context, code string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_code = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, code))
}

func (r *pgUserRepository) Search(ctx context.Context, q string, limit int) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if q != "" {
		query += ` WHERE (name ILIKE $1 OR email ILIKE $1) ORDER BY id DESC LIMIT $2`
		args = append(args, "%"+q+"%", limit)
	} else {
		query += ` ORDER BY id DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.Phone,
			&user.Active, &user.TwoFactorEnabled, &user.ResetCode, &user.ResetExpiresAt,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET name = $2, email = $3, role = $4, phone = $5, active = $6,
			two_factor_enabled = $7, password_hash = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.Role,
		user.Phone, user.Active, user.TwoFactorEnabled, user.PasswordHash)
	return err
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}

func (r *pgUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, active)
	return err
}

func (r *pgUserRepository) SetResetCode(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_code = $2, reset_expires_at = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, code, expiresAt)
	return err
}

func (r *pgUserRepository) ClearResetCode(ctx context.Context, id int64) error {
	query := `UPDATE users SET reset_code = NULL, reset_expires_at = NULL, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgUserRepository) PurgeExpiredResetCodes(ctx context.Context) (int64, error) {
	query := `
		UPDATE users SET reset_code = NULL, reset_expires_at = NULL
		WHERE reset_code IS NOT NULL AND reset_expires_at < NOW()
	`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *pgUserRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count)
	return count, err
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
