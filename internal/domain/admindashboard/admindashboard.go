package admindashboard

import (
	"context"
	"fmt"

	"synapse/internal/infra/dbx"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{q: q}
}

func (r *Repository) GetOverview(ctx context.Context) (*Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM event),
			(SELECT COUNT(*) FROM artist),
			(SELECT COUNT(*) FROM concert),
			(SELECT COUNT(*) FROM sponsors),

			(SELECT COUNT(*) FROM profiles),

			(SELECT COUNT(*) FROM event_registrations),
			(SELECT COUNT(*) FROM event_registrations WHERE payment_status IN ('paid', 'done')),
			(SELECT COUNT(*) FROM event_registrations WHERE payment_status = 'pending'),
			(SELECT COUNT(*) FROM merch_orders),
			(SELECT COUNT(*) FROM accommodation_bookings)
	`

	var o Overview
	err := r.q.QueryRow(ctx, q).Scan(
		&o.TotalEvents,
		&o.TotalArtists,
		&o.TotalConcerts,
		&o.TotalSponsors,

		&o.TotalUsers,

		&o.TotalRegistrations,
		&o.PaidRegistrations,
		&o.PendingRegistrations,
		&o.TotalMerchOrders,
		&o.TotalAccommodations,
	)
	if err != nil {
		return nil, fmt.Errorf("get admin overview: %w", err)
	}

	return &o, nil
}

func (r *Repository) GetDayComparison(ctx context.Context) (*DayComparison, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
			COALESCE(SUM(gross_amount) FILTER (WHERE created_at >= date_trunc('day', now())), 0),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now()) - interval '1 day'
			             AND created_at <  date_trunc('day', now())),
			COALESCE(SUM(gross_amount) FILTER (WHERE created_at >= date_trunc('day', now()) - interval '1 day'
			                               AND created_at <  date_trunc('day', now())), 0)
		FROM event_registrations
		WHERE payment_status IN ('paid', 'done')
	`

	var d DayComparison
	err := r.q.QueryRow(ctx, q).Scan(&d.TodayCount, &d.TodayGross, &d.YesterdayCount, &d.YesterdayGross)
	if err != nil {
		return nil, fmt.Errorf("get day comparison: %w", err)
	}
	return &d, nil
}
