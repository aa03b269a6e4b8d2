package registrations

import "time"

type Registration struct {
	RegistrationID    int64     `json:"registration_id"`
	UserID            *string   `json:"user_id"`
	EventID           int64     `json:"event_id"`
	EventName         string    `json:"event_name,omitempty"`
	FeeID             int64     `json:"fee_id"`
	ParticipationType string    `json:"participation_type,omitempty"`
	TeamSize          int       `json:"team_size"`
	TicketCode        string    `json:"ticket_code"`
	PaymentMethod     string    `json:"payment_method"`
	PaymentStatus     string    `json:"payment_status"`
	GrossAmount       float64   `json:"gross_amount"` // rupees
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// PaymentMethod carries the admin-configurable gateway fee percentage.
// The rate is mutable configuration, so historical net revenue is always
// recomputed from the current rate, not locked at transaction time.
type PaymentMethod struct {
	MethodName    string  `json:"method_name"`
	GatewayCharge float64 `json:"gateway_charge"` // percent of gross
}

// RevenueSummary is the admin reporting rollup over paid registrations.
type RevenueSummary struct {
	TotalRegistrations int     `json:"total_registrations"`
	PaidCount          int     `json:"paid_count"`
	PendingCount       int     `json:"pending_count"`
	GrossRevenue       float64 `json:"gross_revenue"`
	GatewayCharges     float64 `json:"gateway_charges"`
	NetRevenue         float64 `json:"net_revenue"`
}
