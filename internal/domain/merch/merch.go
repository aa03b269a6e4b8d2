package merch

import (
	"context"
	"errors"
	"fmt"

	"synapse/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateOrder mirrors the accommodation dedup: one row per gateway
// order id, enforced by a unique constraint.
var ErrDuplicateOrder = errors.New("merch order already recorded for this gateway order")

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

// ListProducts returns products. availableOnly is true for the public store;
// the admin view passes false to include hidden products.
func (r *Repository) ListProducts(ctx context.Context, availableOnly bool) ([]*Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, product_name, description, price, image_url, sizes, is_available, created_at
		FROM merchandise_management
		WHERE ($1 = false OR is_available = true)
		ORDER BY product_id ASC
	`, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Description, &p.Price, &p.ImageURL, &p.Sizes, &p.IsAvailable, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *Repository) GetProduct(ctx context.Context, id int64, availableOnly bool) (*Product, error) {
	var p Product
	err := r.q.QueryRow(ctx, `
		SELECT product_id, product_name, description, price, image_url, sizes, is_available, created_at
		FROM merchandise_management
		WHERE product_id = $1 AND ($2 = false OR is_available = true)
	`, id, availableOnly).
		Scan(&p.ProductID, &p.ProductName, &p.Description, &p.Price, &p.ImageURL, &p.Sizes, &p.IsAvailable, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *Product) error {
	return r.q.QueryRow(ctx, `
		INSERT INTO merchandise_management (product_name, description, price, image_url, sizes, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id, created_at
	`, p.ProductName, p.Description, p.Price, p.ImageURL, p.Sizes, p.IsAvailable).
		Scan(&p.ProductID, &p.CreatedAt)
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE merchandise_management
		SET product_name = $2, description = $3, price = $4, image_url = $5, sizes = $6, is_available = $7
		WHERE product_id = $1
	`, p.ProductID, p.ProductName, p.Description, p.Price, p.ImageURL, p.Sizes, p.IsAvailable)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM merchandise_management WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	err := r.q.QueryRow(ctx, `
		INSERT INTO merch_orders
			(user_id, product_id, quantity, size, amount,
			 razorpay_order_id, razorpay_payment_id, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING order_id, created_at
	`, o.UserID, o.ProductID, o.Quantity, o.Size, o.Amount,
		o.RazorpayOrderID, o.RazorpayPaymentID, o.PaymentStatus).
		Scan(&o.OrderID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("create merch order: %w", err)
	}
	return o, nil
}

func (r *Repository) ListOrders(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT o.order_id, o.user_id, o.product_id, p.product_name, o.quantity, o.size,
		       o.amount, o.razorpay_order_id, o.razorpay_payment_id, o.payment_status, o.created_at,
		       COUNT(*) OVER() AS total_count
		FROM merch_orders o
		JOIN merchandise_management p ON p.product_id = o.product_id
		ORDER BY o.created_at DESC, o.order_id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list merch orders: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Order
		total int
	)
	for rows.Next() {
		var o Order
		var t int
		if err := rows.Scan(
			&o.OrderID, &o.UserID, &o.ProductID, &o.ProductName, &o.Quantity, &o.Size,
			&o.Amount, &o.RazorpayOrderID, &o.RazorpayPaymentID, &o.PaymentStatus, &o.CreatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan merch order: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
