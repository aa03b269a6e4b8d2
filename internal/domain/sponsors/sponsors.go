package sponsors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Sponsor struct {
	SponsorID    int64     `json:"sponsor_id"`
	Name         string    `json:"name"`
	Tier         string    `json:"tier"` // title | platinum | gold | silver
	LogoURL      *string   `json:"logo_url"`
	WebsiteURL   *string   `json:"website_url"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Reorder item for the batch display_order update.
type OrderUpdate struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) List(ctx context.Context) ([]*Sponsor, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sponsor_id, name, tier, logo_url, website_url, display_order, created_at
		FROM sponsors
		ORDER BY display_order ASC, sponsor_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	defer rows.Close()

	var out []*Sponsor
	for rows.Next() {
		var s Sponsor
		if err := rows.Scan(&s.SponsorID, &s.Name, &s.Tier, &s.LogoURL, &s.WebsiteURL, &s.DisplayOrder, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sponsor: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, s *Sponsor) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO sponsors (name, tier, logo_url, website_url, display_order)
		VALUES ($1, $2, $3, $4, COALESCE($5, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM sponsors)))
		RETURNING sponsor_id, display_order, created_at
	`, s.Name, s.Tier, s.LogoURL, s.WebsiteURL, nilIfZero(s.DisplayOrder)).
		Scan(&s.SponsorID, &s.DisplayOrder, &s.CreatedAt)
}

func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func (r *Repository) Update(ctx context.Context, s *Sponsor) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sponsors
		SET name = $2, tier = $3, logo_url = $4, website_url = $5
		WHERE sponsor_id = $1
	`, s.SponsorID, s.Name, s.Tier, s.LogoURL, s.WebsiteURL)
	if err != nil {
		return fmt.Errorf("update sponsor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sponsors WHERE sponsor_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sponsor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reorder applies the admin drag-and-drop ordering in one pass.
func (r *Repository) Reorder(ctx context.Context, orders []OrderUpdate) error {
	for _, o := range orders {
		if _, err := r.q.Exec(ctx,
			`UPDATE sponsors SET display_order = $2 WHERE sponsor_id = $1`,
			o.ID, o.Order); err != nil {
			return fmt.Errorf("reorder sponsor %d: %w", o.ID, err)
		}
	}
	return nil
}

func (r *Repository) GetLogoURL(ctx context.Context, id int64) (*string, error) {
	var logo *string
	err := r.q.QueryRow(ctx, `SELECT logo_url FROM sponsors WHERE sponsor_id = $1`, id).Scan(&logo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return logo, nil
}
