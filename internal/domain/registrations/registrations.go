package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateOrder means a registration for this gateway order id already
// exists (unique constraint on razorpay_order_id).
var ErrDuplicateOrder = errors.New("registration already recorded for this gateway order")

type Repository struct {
	q   dbx.Querier
	gen *TicketCodeGenerator
}

func NewRepository(q dbx.Querier, gen *TicketCodeGenerator) *Repository {
	if gen == nil {
		panic("registrations: TicketCodeGenerator is nil")
	}
	return &Repository{q: q, gen: gen}
}

// Create inserts a verified registration and stamps its ticket code.
// The code is derived from the generated id, so it is written in a second
// statement; a failure there leaves the row paid but uncoded, which the
// admin list surfaces for manual fixup.
func (r *Repository) Create(ctx context.Context, reg *Registration) (*Registration, error) {
	err := r.q.QueryRow(ctx, `
		INSERT INTO event_registrations
			(user_id, event_id, fee_id, team_size, payment_method, payment_status,
			 gross_amount, razorpay_order_id, razorpay_payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING registration_id, created_at
	`, reg.UserID, reg.EventID, reg.FeeID, reg.TeamSize, reg.PaymentMethod,
		reg.PaymentStatus, reg.GrossAmount, reg.RazorpayOrderID, reg.RazorpayPaymentID).
		Scan(&reg.RegistrationID, &reg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	reg.TicketCode = r.gen.Generate(reg.RegistrationID)
	if _, err := r.q.Exec(ctx, `
		UPDATE event_registrations SET ticket_code = $2 WHERE registration_id = $1
	`, reg.RegistrationID, reg.TicketCode); err != nil {
		return nil, fmt.Errorf("stamp ticket code: %w", err)
	}

	return reg, nil
}

// List returns registrations with optional filters:
// - eventID: 0 => no filter
// - status: "" => no filter
// - since: nil => no time filter
func (r *Repository) List(
	ctx context.Context,
	eventID int64,
	status string,
	since *time.Time,
	limit, offset int,
) ([]*Registration, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT reg.registration_id, reg.user_id, reg.event_id, e.event_name,
		       reg.fee_id, f.participation_type, reg.team_size,
		       COALESCE(reg.ticket_code, ''), reg.payment_method, reg.payment_status,
		       reg.gross_amount, reg.razorpay_order_id, reg.razorpay_payment_id, reg.created_at,
		       COUNT(*) OVER() AS total_count
		FROM event_registrations reg
		JOIN event e ON e.event_id = reg.event_id
		JOIN fee f   ON f.fee_id = reg.fee_id
		WHERE ($1 = 0 OR reg.event_id = $1)
		  AND ($2 = '' OR reg.payment_status = $2)
		  AND ($3::timestamptz IS NULL OR reg.created_at >= $3::timestamptz)
		ORDER BY reg.created_at DESC, reg.registration_id DESC
		LIMIT $4 OFFSET $5
	`, eventID, status, since, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Registration
		total int
	)
	for rows.Next() {
		var reg Registration
		var t int
		if err := rows.Scan(
			&reg.RegistrationID, &reg.UserID, &reg.EventID, &reg.EventName,
			&reg.FeeID, &reg.ParticipationType, &reg.TeamSize,
			&reg.TicketCode, &reg.PaymentMethod, &reg.PaymentStatus,
			&reg.GrossAmount, &reg.RazorpayOrderID, &reg.RazorpayPaymentID, &reg.CreatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan registration: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAllPaid returns every paid registration for the revenue rollup.
func (r *Repository) ListAllPaid(ctx context.Context) ([]*Registration, error) {
	rows, err := r.q.Query(ctx, `
		SELECT registration_id, user_id, event_id, fee_id, team_size,
		       COALESCE(ticket_code, ''), payment_method, payment_status,
		       gross_amount, razorpay_order_id, razorpay_payment_id, created_at
		FROM event_registrations
		WHERE payment_status IN ('paid', 'done')
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list paid registrations: %w", err)
	}
	defer rows.Close()

	var out []*Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(
			&reg.RegistrationID, &reg.UserID, &reg.EventID, &reg.FeeID, &reg.TeamSize,
			&reg.TicketCode, &reg.PaymentMethod, &reg.PaymentStatus,
			&reg.GrossAmount, &reg.RazorpayOrderID, &reg.RazorpayPaymentID, &reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, &reg)
	}
	return out, rows.Err()
}

func (r *Repository) ListPaymentMethods(ctx context.Context) ([]*PaymentMethod, error) {
	rows, err := r.q.Query(ctx, `
		SELECT method_name, gateway_charge FROM payment_method ORDER BY method_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var out []*PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.MethodName, &m.GatewayCharge); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// SetGatewayCharge upserts the fee percentage for a payment method.
func (r *Repository) SetGatewayCharge(ctx context.Context, method string, pct float64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_method (method_name, gateway_charge)
		VALUES ($1, $2)
		ON CONFLICT (method_name) DO UPDATE SET gateway_charge = EXCLUDED.gateway_charge
	`, method, pct)
	if err != nil {
		return fmt.Errorf("set gateway charge: %w", err)
	}
	return nil
}
