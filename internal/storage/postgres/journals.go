package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

const journalColumns = `id, user_id, name, prompt, date`

func (s *Store) CreateEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	const query = `
		INSERT INTO journal_entries (id, user_id, name, prompt)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + journalColumns
	return scanEntry(s.pool.QueryRow(ctx, query, uuid.NewString(), entry.UserID, entry.Name, entry.Prompt))
}

func (s *Store) ListEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	const query = `SELECT ` + journalColumns + ` FROM journal_entries WHERE user_id = $1 ORDER BY date DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalEntry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

// UpdateEntry rewrites name and prompt of an entry owned by entry.UserID.
func (s *Store) UpdateEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	const query = `
		UPDATE journal_entries
		SET name = $3, prompt = $4, date = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + journalColumns
	return scanEntry(s.pool.QueryRow(ctx, query, entry.ID, entry.UserID, entry.Name, entry.Prompt))
}

func (s *Store) DeleteEntry(ctx context.Context, userID, entryID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListTypes(ctx context.Context) ([]models.JournalType, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM journal_types ORDER BY id`)
	if err != nil {
		return nil, translate(err)
	}
	types, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.JournalType])
	if err != nil {
		return nil, translate(err)
	}
	return types, nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var e models.JournalEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Prompt, &e.Date); err != nil {
		return models.JournalEntry{}, translate(err)
	}
	return e, nil
}
