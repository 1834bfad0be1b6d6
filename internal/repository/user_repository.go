package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"seoblog/api/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicate       = errors.New("duplicate key")
)

const uniqueViolation = "23505"

const accountColumns = `
	id, username, name, email, profile, about, salt, password_hash, role, reset_token, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, account models.Account) error {
	const query = `
		INSERT INTO users (
			id, username, name, email, profile, about, salt, password_hash, role, reset_token, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Name,
		strings.ToLower(account.Email),
		account.Profile,
		account.About,
		account.Salt,
		account.PasswordHash,
		account.Role,
		account.ResetToken,
	)
	return mapDuplicate(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users WHERE email = $1
	`
	return r.one(ctx, query, strings.ToLower(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users WHERE id = $1
	`
	return r.one(ctx, query, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users WHERE username = $1
	`
	return r.one(ctx, query, strings.ToLower(username))
}

// FindByResetToken locates the account whose live reset flow carries token.
// A consumed or never-issued token matches nothing.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (models.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users WHERE reset_token = $1 AND reset_token <> ''
	`
	return r.one(ctx, query, token)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, token string) error {
	const query = `
		UPDATE users SET reset_token = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// UpdateCredential installs a new verifier and closes any pending reset.
func (r *UserRepository) UpdateCredential(ctx context.Context, id string, salt string, passwordHash string) error {
	const query = `
		UPDATE users SET salt = $2, password_hash = $3, reset_token = '', updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, salt, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, account models.Account) error {
	const query = `
		UPDATE users SET name = $2, about = $3, salt = $4, password_hash = $5, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		account.About,
		account.Salt,
		account.PasswordHash,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit int, offset int) ([]models.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *UserRepository) one(ctx context.Context, query string, arg any) (models.Account, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Name,
		&account.Email,
		&account.Profile,
		&account.About,
		&account.Salt,
		&account.PasswordHash,
		&account.Role,
		&account.ResetToken,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

// mapDuplicate surfaces the store's duplicate-key failure distinguishably;
// a lost signup race lands here.
func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
