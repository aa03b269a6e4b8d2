package merch

import "time"

type Product struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Description *string   `json:"description"`
	Price       int       `json:"price"` // rupees
	ImageURL    *string   `json:"image_url"`
	Sizes       []string  `json:"sizes"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order is a verified, paid merchandise purchase. Like accommodation
// bookings it is only written after the signature check passes.
type Order struct {
	OrderID           int64     `json:"order_id"`
	UserID            *string   `json:"user_id"`
	ProductID         int64     `json:"product_id"`
	ProductName       string    `json:"product_name,omitempty"`
	Quantity          int       `json:"quantity"`
	Size              *string   `json:"size"`
	Amount            float64   `json:"amount"` // rupees
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	PaymentStatus     string    `json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
}
