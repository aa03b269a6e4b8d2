package payments

// OrderRequest is what we send to the gateway when minting an order.
// Amount is in paise; Notes carries the business parameters so the gateway
// keeps context independent of our database.
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the gateway-side handle returned from order creation.
type Order struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
}
