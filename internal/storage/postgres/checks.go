package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindcare/mindcare-be/internal/models"
)

const checkColumns = `id, user_id, mood, notes, created_at`

func (s *Store) CreateCheck(ctx context.Context, c models.MentalCheck) (models.MentalCheck, error) {
	const query = `
		INSERT INTO mental_checks (id, user_id, mood, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + checkColumns
	return scanCheck(s.pool.QueryRow(ctx, query, uuid.NewString(), c.UserID, c.Mood, c.Notes))
}

func (s *Store) ListChecks(ctx context.Context, userID string) ([]models.MentalCheck, error) {
	const query = `SELECT ` + checkColumns + ` FROM mental_checks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err)
	}
	checks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MentalCheck, error) {
		return scanCheck(row)
	})
	if err != nil {
		return nil, translate(err)
	}
	return checks, nil
}

func scanCheck(row pgx.Row) (models.MentalCheck, error) {
	var c models.MentalCheck
	var mood int16
	if err := row.Scan(&c.ID, &c.UserID, &mood, &c.Notes, &c.CreatedAt); err != nil {
		return models.MentalCheck{}, translate(err)
	}
	c.Mood = int(mood)
	return c, nil
}
