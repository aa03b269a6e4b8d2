package admindashboard

import "context"

type Overview struct {
	// Content
	TotalEvents   int64 `json:"total_events"`
	TotalArtists  int64 `json:"total_artists"`
	TotalConcerts int64 `json:"total_concerts"`
	TotalSponsors int64 `json:"total_sponsors"`

	// People
	TotalUsers int64 `json:"total_users"`

	// Money
	TotalRegistrations   int64 `json:"total_registrations"`
	PaidRegistrations    int64 `json:"paid_registrations"`
	PendingRegistrations int64 `json:"pending_registrations"`
	TotalMerchOrders     int64 `json:"total_merch_orders"`
	TotalAccommodations  int64 `json:"total_accommodations"`
}

// DayComparison contrasts today's paid registrations with yesterday's,
// for the dashboard trend arrows.
type DayComparison struct {
	TodayCount     int64   `json:"today_count"`
	TodayGross     float64 `json:"today_gross"`
	YesterdayCount int64   `json:"yesterday_count"`
	YesterdayGross float64 `json:"yesterday_gross"`
}

type Store interface {
	GetOverview(ctx context.Context) (*Overview, error)
	GetDayComparison(ctx context.Context) (*DayComparison, error)
}
