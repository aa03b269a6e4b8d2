package payments

import "context"

// Gateway is the server-side surface of the payment provider: minting an
// order before the hosted checkout, and proving a callback came from the
// provider afterwards.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
