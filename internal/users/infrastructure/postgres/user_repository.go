package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	users "wisewatt-cloud/internal/users/domain"
)

// DBTX abstracts *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository persists users in Postgres.
type UserRepository struct {
	db    DBTX
	table string
}

// Option customises the repository.
type Option func(*UserRepository)

// WithUserTable overrides the table name.
func WithUserTable(table string) Option {
	return func(r *UserRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewUserRepository constructs a repository.
func NewUserRepository(db DBTX, opts ...Option) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("user repo: nil db")
	}
	r := &UserRepository{db: db, table: "users"}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *UserRepository) GetByGUID(ctx context.Context, guid string) (*users.User, error) {
	query := fmt.Sprintf(`
SELECT guid, firstname, lastname, email, password_hash, salt
FROM %s WHERE guid = $1`, r.table)
	return r.scanOne(r.db.QueryRowContext(ctx, query, guid))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := fmt.Sprintf(`
SELECT guid, firstname, lastname, email, password_hash, salt
FROM %s WHERE email = $1`, r.table)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Save(ctx context.Context, user users.User) error {
	query := fmt.Sprintf(`
INSERT INTO %s (guid, firstname, lastname, email, password_hash, salt)
VALUES ($1, $2, $3, $4, $5, $6)`, r.table)
	_, err := r.db.ExecContext(ctx, query,
		user.GUID, user.Firstname, user.Lastname, user.Email, user.PasswordHash, user.Salt)
	if err != nil {
		return fmt.Errorf("user repo: insert: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user users.User) error {
	query := fmt.Sprintf(`
UPDATE %s SET firstname = $2, lastname = $3, email = $4, password_hash = $5, salt = $6
WHERE guid = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query,
		user.GUID, user.Firstname, user.Lastname, user.Email, user.PasswordHash, user.Salt)
	if err != nil {
		return fmt.Errorf("user repo: update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repo: rows affected: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*users.User, error) {
	var user users.User
	err := row.Scan(&user.GUID, &user.Firstname, &user.Lastname, &user.Email, &user.PasswordHash, &user.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user repo: scan: %w", err)
	}
	return &user, nil
}
