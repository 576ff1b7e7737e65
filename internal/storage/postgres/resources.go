package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/storage"
)

const resourceColumns = `id, kind, title, description, url, category, created_at`

func (s *Store) CreateResource(ctx context.Context, r models.Resource) (models.Resource, error) {
	const query = `
		INSERT INTO resources (id, kind, title, description, url, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + resourceColumns
	return scanResource(s.pool.QueryRow(ctx, query, uuid.NewString(), string(r.Kind), r.Title, r.Description, r.URL, r.Category))
}

func (s *Store) ListResources(ctx context.Context, kind models.ResourceKind) ([]models.Resource, error) {
	const query = `SELECT ` + resourceColumns + ` FROM resources WHERE kind = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, translate(err)
	}
	resources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Resource, error) {
		return scanResource(row)
	})
	if err != nil {
		return nil, translate(err)
	}
	return resources, nil
}

func (s *Store) UpdateResource(ctx context.Context, r models.Resource) (models.Resource, error) {
	const query = `
		UPDATE resources
		SET title = $3, description = $4, url = $5, category = $6
		WHERE id = $1 AND kind = $2
		RETURNING ` + resourceColumns
	return scanResource(s.pool.QueryRow(ctx, query, r.ID, string(r.Kind), r.Title, r.Description, r.URL, r.Category))
}

func (s *Store) DeleteResource(ctx context.Context, kind models.ResourceKind, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanResource(row pgx.Row) (models.Resource, error) {
	var r models.Resource
	var kind string
	if err := row.Scan(&r.ID, &kind, &r.Title, &r.Description, &r.URL, &r.Category, &r.CreatedAt); err != nil {
		return models.Resource{}, translate(err)
	}
	r.Kind = models.ResourceKind(kind)
	return r, nil
}
