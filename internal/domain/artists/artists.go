package artists

import (
	"context"
	"errors"
	"fmt"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) List(ctx context.Context) ([]*Artist, error) {
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.name, a.genre, a.bio, a.image_url, a.concert_id, c.concert_name, a.created_at
		FROM artist a
		LEFT JOIN concert c ON c.concert_id = a.concert_id
		ORDER BY a.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var out []*Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Genre, &a.Bio, &a.ImageURL, &a.ConcertID, &a.ConcertName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Artist, error) {
	var a Artist
	err := r.q.QueryRow(ctx, `
		SELECT a.id, a.name, a.genre, a.bio, a.image_url, a.concert_id, c.concert_name, a.created_at
		FROM artist a
		LEFT JOIN concert c ON c.concert_id = a.concert_id
		WHERE a.id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Genre, &a.Bio, &a.ImageURL, &a.ConcertID, &a.ConcertName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, a *Artist) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO artist (name, genre, bio, image_url, concert_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.Name, a.Genre, a.Bio, a.ImageURL, a.ConcertID).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *Repository) Update(ctx context.Context, a *Artist) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE artist
		SET name = $2, genre = $3, bio = $4, image_url = $5, concert_id = $6
		WHERE id = $1
	`, a.ID, a.Name, a.Genre, a.Bio, a.ImageURL, a.ConcertID)
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM artist WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
