package artists

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) ListConcerts(ctx context.Context) ([]*Concert, error) {
	rows, err := r.q.Query(ctx, `
		SELECT concert_id, concert_name, concert_date, venue, description, created_at
		FROM concert
		ORDER BY concert_date ASC NULLS LAST, concert_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
	}
	defer rows.Close()

	var out []*Concert
	for rows.Next() {
		var c Concert
		if err := rows.Scan(&c.ConcertID, &c.ConcertName, &c.ConcertDate, &c.Venue, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *Repository) GetConcert(ctx context.Context, id int64) (*Concert, error) {
	var c Concert
	err := r.q.QueryRow(ctx, `
		SELECT concert_id, concert_name, concert_date, venue, description, created_at
		FROM concert WHERE concert_id = $1
	`, id).Scan(&c.ConcertID, &c.ConcertName, &c.ConcertDate, &c.Venue, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get concert: %w", err)
	}
	return &c, nil
}

func (r *Repository) CreateConcert(ctx context.Context, c *Concert) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO concert (concert_name, concert_date, venue, description)
		VALUES ($1, $2, $3, $4)
		RETURNING concert_id, created_at
	`, c.ConcertName, c.ConcertDate, c.Venue, c.Description).
		Scan(&c.ConcertID, &c.CreatedAt)
}

func (r *Repository) UpdateConcert(ctx context.Context, c *Concert) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE concert
		SET concert_name = $2, concert_date = $3, venue = $4, description = $5
		WHERE concert_id = $1
	`, c.ConcertID, c.ConcertName, c.ConcertDate, c.Venue, c.Description)
	if err != nil {
		return fmt.Errorf("update concert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteConcert(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM concert WHERE concert_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete concert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
