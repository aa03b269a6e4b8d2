package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.q.Query(ctx, `
		SELECT category_id, category_name, description, category_image, created_at
		FROM event_category
		ORDER BY category_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Description, &c.CategoryImage, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, c *Category) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO event_category (category_name, description, category_image)
		VALUES ($1, $2, $3)
		RETURNING category_id, created_at
	`, c.CategoryName, c.Description, c.CategoryImage).
		Scan(&c.CategoryID, &c.CreatedAt)
}

func (r *Repository) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE event_category
		SET category_name = $2, description = $3, category_image = $4
		WHERE category_id = $1
	`, c.CategoryID, c.CategoryName, c.Description, c.CategoryImage)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM event_category WHERE category_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetCategoryImage returns the stored image URL so admin cleanup can delete
// the CDN asset before removing the row.
func (r *Repository) GetCategoryImage(ctx context.Context, id int64) (*string, error) {
	var img *string
	err := r.q.QueryRow(ctx, `SELECT category_image FROM event_category WHERE category_id = $1`, id).Scan(&img)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return img, nil
}
