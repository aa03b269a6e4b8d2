package accommodations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateOrder means a booking for this gateway order id already exists.
// The unique constraint on razorpay_order_id is what dedupes two concurrent
// verification calls for the same order.
var ErrDuplicateOrder = errors.New("booking already recorded for this order")

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	err := r.q.QueryRow(ctx, `
		INSERT INTO accommodation_bookings
			(user_id, nights, check_in, check_out, amount,
			 razorpay_order_id, razorpay_payment_id, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING booking_id, created_at
	`, b.UserID, b.Nights, b.CheckIn, b.CheckOut, b.Amount,
		b.RazorpayOrderID, b.RazorpayPaymentID, b.PaymentStatus).
		Scan(&b.BookingID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create accommodation booking: %w", err)
	}
	return b, nil
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*Booking, error) {
	var b Booking
	err := r.q.QueryRow(ctx, `
		SELECT booking_id, user_id, nights, check_in, check_out, amount,
		       razorpay_order_id, razorpay_payment_id, payment_status, created_at
		FROM accommodation_bookings
		WHERE razorpay_order_id = $1
	`, orderID).Scan(
		&b.BookingID, &b.UserID, &b.Nights, &b.CheckIn, &b.CheckOut, &b.Amount,
		&b.RazorpayOrderID, &b.RazorpayPaymentID, &b.PaymentStatus, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by order id: %w", err)
	}
	return &b, nil
}

// List returns bookings newest first, with total count for pagination.
func (r *Repository) List(ctx context.Context, since *time.Time, limit, offset int) ([]*Booking, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT booking_id, user_id, nights, check_in, check_out, amount,
		       razorpay_order_id, razorpay_payment_id, payment_status, created_at,
		       COUNT(*) OVER() AS total_count
		FROM accommodation_bookings
		WHERE ($1::timestamptz IS NULL OR created_at >= $1::timestamptz)
		ORDER BY created_at DESC, booking_id DESC
		LIMIT $2 OFFSET $3
	`, since, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list accommodation bookings: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Booking
		total int
	)
	for rows.Next() {
		var b Booking
		var t int
		if err := rows.Scan(
			&b.BookingID, &b.UserID, &b.Nights, &b.CheckIn, &b.CheckOut, &b.Amount,
			&b.RazorpayOrderID, &b.RazorpayPaymentID, &b.PaymentStatus, &b.CreatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
