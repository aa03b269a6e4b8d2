package analytics

import (
	"context"
	"fmt"
	"time"

	"synapse/internal/infra/dbx"
)

// Traffic is proxied off registration activity: registrations stand in for
// page views and distinct registering users for unique visitors. No separate
// tracking pixel exists.
type Traffic struct {
	Days           int   `json:"days"`
	PageViews      int64 `json:"page_views"`
	UniqueVisitors int64 `json:"unique_visitors"`
}

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) GetTraffic(ctx context.Context, days int) (*Traffic, error) {
	if days <= 0 {
		days = 7
	}
	start := time.Now().AddDate(0, 0, -days)

	t := Traffic{Days: days}
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT user_id) FILTER (WHERE user_id IS NOT NULL)
		FROM event_registrations
		WHERE created_at >= $1
	`, start).Scan(&t.PageViews, &t.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("get traffic: %w", err)
	}
	return &t, nil
}
