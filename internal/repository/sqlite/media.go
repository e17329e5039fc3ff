package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garnizeh/outreach/pkg/models"
	"github.com/garnizeh/outreach/pkg/repository"
)

const mediaColumns = `id, url, title, description, kind, created_at`

func (r *SQLiteRepo) CreateMedia(ctx context.Context, m *models.MediaItem) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("media item is nil")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO media_items (url, title, description, kind, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.URL, m.Title, m.Description, m.Kind.String(), m.CreatedAt.UTC().UnixMicro())
	if err != nil {
		return 0, translate(err)
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetMedia(ctx context.Context, id int64) (*models.MediaItem, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id = ?`, id)
	m, err := scanMedia(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return m, nil
}

// ListMedia returns every media item, newest first. Items created in the same
// microsecond fall back to insertion order.
func (r *SQLiteRepo) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+mediaColumns+` FROM media_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MediaItem
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *m)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteMedia(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedia(s scanner) (*models.MediaItem, error) {
	var (
		m       models.MediaItem
		kind    string
		created int64
	)
	if err := s.Scan(&m.ID, &m.URL, &m.Title, &m.Description, &kind, &created); err != nil {
		return nil, err
	}

	k, err := models.ParseMediaKind(kind)
	if err != nil {
		return nil, fmt.Errorf("media item %d: %w", m.ID, err)
	}
	m.Kind = k
	m.CreatedAt = time.UnixMicro(created).UTC()

	return &m, nil
}
