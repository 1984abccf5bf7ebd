package ports

import (
	"context"

	"github.com/gharfindr/rental-api/internal/core/domain"
)

// OrderRepository defines persistence operations for payment orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.PaymentOrder) (*domain.PaymentOrder, error)
	FindByGatewayRef(ctx context.Context, ref string) (*domain.PaymentOrder, error)
	// MarkPaid transitions a pending order to paid. Returns
	// domain.ErrOrderNotPayable when the order is not pending.
	MarkPaid(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
