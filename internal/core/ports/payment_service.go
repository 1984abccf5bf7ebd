package ports

import "context"

// InitiatePaymentResult carries everything the client needs to redirect the
// user to the gateway checkout page.
type InitiatePaymentResult struct {
	OrderID     string
	GatewayRef  string
	Amount      float64
	RedirectURL string
	// Fields is the signed form payload the gateway expects on checkout.
	Fields map[string]string
}

// VerifyPaymentInput is the callback payload echoed back by the gateway.
type VerifyPaymentInput struct {
	GatewayRef string
	Amount     string
	Status     string
	Signature  string
}

// PaymentService initiates and verifies gateway payment orders.
type PaymentService interface {
	InitiateOrder(ctx context.Context, accountID, roomID string) (*InitiatePaymentResult, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) error
}
