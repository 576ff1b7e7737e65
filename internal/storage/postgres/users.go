package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

const userColumns = `id, username, email, password_hash, created_at`

// CreateUser inserts a new user row; a taken email yields storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, uuid.NewString(), user.Username, storage.NormalizeEmail(user.Email), user.PasswordHash)
	return scanUser(row)
}

// FindUserByEmail fetches a user by email address, ignoring case.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	return scanUser(s.pool.QueryRow(ctx, query, storage.NormalizeEmail(email)))
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// UpdateUser applies the non-nil fields of update in a single statement.
func (s *Store) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	var username, email *string
	if update.Username != nil {
		v := strings.TrimSpace(*update.Username)
		username = &v
	}
	if update.Email != nil {
		v := storage.NormalizeEmail(*update.Email)
		email = &v
	}
	const query = `
		UPDATE users
		SET username = COALESCE($2, username),
			email = COALESCE($3, email)
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id, username, email))
}

// DeleteUser removes the user; owned journal entries and checks cascade.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}
