package accommodations

import "time"

// Booking is the persisted record of a verified accommodation payment.
// Created once after signature verification; never mutated on the happy path.
type Booking struct {
	BookingID         int64     `json:"booking_id"`
	UserID            *string   `json:"user_id"` // nil for guest checkouts
	Nights            int       `json:"nights"`
	CheckIn           string    `json:"check_in"`
	CheckOut          string    `json:"check_out"`
	Amount            float64   `json:"amount"` // rupees, converted back from paise
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	PaymentStatus     string    `json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
}
