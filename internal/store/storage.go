package store

import (
	"context"
	"time"

	"synapse/internal/domain/accommodations"
	"synapse/internal/domain/admindashboard"
	"synapse/internal/domain/analytics"
	"synapse/internal/domain/artists"
	"synapse/internal/domain/events"
	"synapse/internal/domain/merch"
	"synapse/internal/domain/registrations"
	"synapse/internal/domain/sponsors"
	"synapse/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryTimeoutDuration bounds single-query work kicked off outside a
// request-scoped deadline (background emails, small lookups).
var QueryTimeoutDuration = time.Second * 5

// Storage aggregates the per-domain repositories behind interfaces so
// handlers (and handler tests) depend on behavior, not pgx.
type Storage struct {
	Users interface {
		Create(context.Context, *users.User) error
		GetByID(context.Context, string) (*users.User, error)
		GetByEmail(context.Context, string) (*users.User, error)
	}
	Events interface {
		List(context.Context) ([]*events.Event, error)
		GetByID(context.Context, int64) (*events.Event, error)
		Create(context.Context, *events.Event) error
		Update(context.Context, int64, map[string]any) error
		Delete(context.Context, int64) error
		FeeFor(context.Context, int64, string) (*events.Fee, error)
		ListCategories(context.Context) ([]*events.Category, error)
		CreateCategory(context.Context, *events.Category) error
		UpdateCategory(context.Context, *events.Category) error
		DeleteCategory(context.Context, int64) error
		GetCategoryImage(context.Context, int64) (*string, error)
	}
	Artists interface {
		List(context.Context) ([]*artists.Artist, error)
		GetByID(context.Context, int64) (*artists.Artist, error)
		Create(context.Context, *artists.Artist) error
		Update(context.Context, *artists.Artist) error
		Delete(context.Context, int64) error
		ListConcerts(context.Context) ([]*artists.Concert, error)
		GetConcert(context.Context, int64) (*artists.Concert, error)
		CreateConcert(context.Context, *artists.Concert) error
		UpdateConcert(context.Context, *artists.Concert) error
		DeleteConcert(context.Context, int64) error
	}
	Sponsors interface {
		List(context.Context) ([]*sponsors.Sponsor, error)
		Create(context.Context, *sponsors.Sponsor) error
		Update(context.Context, *sponsors.Sponsor) error
		Delete(context.Context, int64) error
		Reorder(context.Context, []sponsors.OrderUpdate) error
		GetLogoURL(context.Context, int64) (*string, error)
	}
	Merch interface {
		ListProducts(ctx context.Context, availableOnly bool) ([]*merch.Product, error)
		GetProduct(ctx context.Context, id int64, availableOnly bool) (*merch.Product, error)
		CreateProduct(context.Context, *merch.Product) error
		UpdateProduct(context.Context, *merch.Product) error
		DeleteProduct(context.Context, int64) error
		CreateOrder(context.Context, *merch.Order) (*merch.Order, error)
		ListOrders(ctx context.Context, limit, offset int) ([]*merch.Order, int, error)
	}
	Registrations interface {
		Create(context.Context, *registrations.Registration) (*registrations.Registration, error)
		List(ctx context.Context, eventID int64, status string, since *time.Time, limit, offset int) ([]*registrations.Registration, int, error)
		ListAllPaid(context.Context) ([]*registrations.Registration, error)
		ListPaymentMethods(context.Context) ([]*registrations.PaymentMethod, error)
		SetGatewayCharge(ctx context.Context, method string, pct float64) error
	}
	Accommodations interface {
		Create(context.Context, *accommodations.Booking) (*accommodations.Booking, error)
		GetByOrderID(context.Context, string) (*accommodations.Booking, error)
		List(ctx context.Context, since *time.Time, limit, offset int) ([]*accommodations.Booking, int, error)
	}
	AdminDashboard admindashboard.Store
	Analytics      interface {
		GetTraffic(ctx context.Context, days int) (*analytics.Traffic, error)
	}
}

func NewStorage(db *pgxpool.Pool, ticketGen *registrations.TicketCodeGenerator) Storage {
	return Storage{
		Users:          users.NewRepository(db),
		Events:         events.NewRepository(db),
		Artists:        artists.NewRepository(db),
		Sponsors:       sponsors.NewRepository(db),
		Merch:          merch.NewRepository(db),
		Registrations:  registrations.NewRepository(db, ticketGen),
		Accommodations: accommodations.NewRepository(db),
		AdminDashboard: admindashboard.NewRepository(db),
		Analytics:      analytics.NewRepository(db),
	}
}
