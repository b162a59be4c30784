package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"esls/api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, telephone, mail, password_hash, raw_password, activate_status, status, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			name, telephone, mail, password_hash, raw_password, activate_status, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Telephone,
		user.Mail,
		user.PasswordHash,
		user.RawPassword,
		user.ActivateStatus,
		user.Status,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (models.User, error) {
	return r.findBy(ctx, "name", name)
}

func (r *UserRepository) FindByTelephone(ctx context.Context, telephone string) (models.User, error) {
	return r.findBy(ctx, "telephone", telephone)
}

func (r *UserRepository) FindByMail(ctx context.Context, mail string) (models.User, error) {
	return r.findBy(ctx, "mail", mail)
}

func (r *UserRepository) findBy(ctx context.Context, column string, value any) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	row := r.pool.QueryRow(ctx, query, value)
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Telephone,
		&user.Mail,
		&user.PasswordHash,
		&user.RawPassword,
		&user.ActivateStatus,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Save writes back every mutable column of an existing user.
func (r *UserRepository) Save(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users
		SET name = $2, telephone = $3, mail = $4, password_hash = $5, raw_password = $6,
		    activate_status = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Telephone,
		user.Mail,
		user.PasswordHash,
		user.RawPassword,
		user.ActivateStatus,
		user.Status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash, rawPassword string) error {
	const query = `
		UPDATE users SET password_hash = $2, raw_password = $3, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash, rawPassword)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateActivateStatus touches only the activation flag, leaving
// credentials and contact columns alone.
func (r *UserRepository) UpdateActivateStatus(ctx context.Context, id int64, status byte) error {
	const query = `
		UPDATE users SET activate_status = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateStatus flips the enabled flag and returns the number of rows touched
// so callers can report a failed toggle without a distinct error type.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status byte) (int64, error) {
	const query = `
		UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
