package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// PaymentGateway abstracts the external checkout provider: it signs the
// outbound order form and verifies callback signatures.
type PaymentGateway interface {
	CheckoutForm(ref string, amount float64) (redirectURL string, fields map[string]string)
	VerifySignature(ref, amount, status, signature string) bool
}

// PaymentService initiates gateway orders for room listings and settles the
// verify callback.
type PaymentService struct {
	orders   ports.OrderRepository
	rooms    ports.RoomRepository
	accounts ports.AccountRepository
	gateway  PaymentGateway
	logger   zerolog.Logger
	now      func() time.Time
}

func NewPaymentService(
	orders ports.OrderRepository,
	rooms ports.RoomRepository,
	accounts ports.AccountRepository,
	gateway PaymentGateway,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		orders:   orders,
		rooms:    rooms,
		accounts: accounts,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// InitiateOrder creates a pending order for a room at its listed rent price
// and returns the signed checkout payload.
func (s *PaymentService) InitiateOrder(ctx context.Context, accountID, roomID string) (*ports.InitiatePaymentResult, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("GF-%s", uuid.NewString())
	order := &domain.PaymentOrder{
		RoomID:     room.ID,
		AccountID:  accountID,
		Amount:     room.RentPrice,
		GatewayRef: ref,
		Status:     domain.OrderPending,
		CreatedAt:  s.now().UTC(),
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	redirectURL, fields := s.gateway.CheckoutForm(ref, order.Amount)
	s.logger.Info().
		Str("order_id", created.ID).
		Str("gateway_ref", ref).
		Float64("amount", order.Amount).
		Msg("payment order initiated")

	return &ports.InitiatePaymentResult{
		OrderID:     created.ID,
		GatewayRef:  ref,
		Amount:      order.Amount,
		RedirectURL: redirectURL,
		Fields:      fields,
	}, nil
}

// gatewayStatusComplete is the only callback status that settles an order.
const gatewayStatusComplete = "COMPLETE"

// VerifyPayment settles the gateway callback: the signature must match, the
// status must be COMPLETE and the order must still be pending. Success records
// the payment on the paying account. An unauthenticated callback never moves
// the order; only a validly signed status does.
func (s *PaymentService) VerifyPayment(ctx context.Context, input ports.VerifyPaymentInput) error {
	order, err := s.orders.FindByGatewayRef(ctx, input.GatewayRef)
	if err != nil {
		return err
	}

	if !s.gateway.VerifySignature(input.GatewayRef, input.Amount, input.Status, input.Signature) {
		return domain.ErrBadSignature
	}

	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil || amount != order.Amount {
		return domain.ErrBadSignature
	}

	// A signed non-COMPLETE status (CANCELED, FAILED, ...) is the gateway
	// reporting an unsuccessful transaction.
	if input.Status != gatewayStatusComplete {
		if merr := s.orders.MarkFailed(ctx, order.ID); merr != nil {
			return merr
		}
		s.logger.Info().Str("order_id", order.ID).Str("status", input.Status).Msg("payment not completed")
		return domain.ErrPaymentNotComplete
	}

	if err := s.orders.MarkPaid(ctx, order.ID); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, order.AccountID)
	if err == nil {
		account.RecordPayment(order.Amount, s.now().UTC())
		if uerr := s.accounts.Update(ctx, account); uerr != nil {
			s.logger.Warn().Err(uerr).Str("account_id", account.ID).Msg("payment counter update failed")
		}
	}

	s.logger.Info().Str("order_id", order.ID).Str("gateway_ref", order.GatewayRef).Msg("payment verified")
	return nil
}
