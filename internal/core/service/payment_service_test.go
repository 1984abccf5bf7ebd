package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

type stubOrderRepo struct {
	byID   map[string]*domain.PaymentOrder
	nextID int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.PaymentOrder)}
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.PaymentOrder) (*domain.PaymentOrder, error) {
	r.nextID++
	copy := *order
	copy.ID = fmt.Sprintf("order_%d", r.nextID)
	r.byID[copy.ID] = &copy
	clone := copy
	return &clone, nil
}

func (r *stubOrderRepo) FindByGatewayRef(_ context.Context, ref string) (*domain.PaymentOrder, error) {
	for _, o := range r.byID {
		if o.GatewayRef == ref {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderPending {
		return domain.ErrOrderNotPayable
	}
	o.Status = domain.OrderPaid
	return nil
}

func (r *stubOrderRepo) MarkFailed(_ context.Context, id string) error {
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderPending {
		return domain.ErrOrderNotPayable
	}
	o.Status = domain.OrderFailed
	return nil
}

// stubGateway accepts any signature equal to "sig:"+ref.
type stubGateway struct{}

func (stubGateway) CheckoutForm(ref string, amount float64) (string, map[string]string) {
	return "https://gateway.test/checkout", map[string]string{
		"transaction_uuid": ref,
		"total_amount":     fmt.Sprintf("%g", amount),
	}
}

func (stubGateway) VerifySignature(ref, _, _, signature string) bool {
	return signature == "sig:"+ref
}

func newPaymentFixture(t *testing.T) (*PaymentService, *stubOrderRepo, *stubRoomRepo, *stubAccountRepo) {
	t.Helper()
	orders := newStubOrderRepo()
	rooms := newStubRoomRepo()
	accounts := newStubAccountRepo()
	svc := NewPaymentService(orders, rooms, accounts, stubGateway{}, zerolog.Nop())
	return svc, orders, rooms, accounts
}

func TestPaymentService_InitiateOrder(t *testing.T) {
	svc, _, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})

	result, err := svc.InitiateOrder(context.Background(), account.ID, room.ID)
	if err != nil {
		t.Fatalf("InitiateOrder returned error: %v", err)
	}
	if result.Amount != 12000 {
		t.Fatalf("expected order amount to match rent price, got %f", result.Amount)
	}
	if !strings.HasPrefix(result.GatewayRef, "GF-") {
		t.Fatalf("unexpected gateway ref: %s", result.GatewayRef)
	}
	if result.RedirectURL == "" || result.Fields["transaction_uuid"] != result.GatewayRef {
		t.Fatalf("checkout payload incomplete: %+v", result)
	}
}

func TestPaymentService_InitiateOrder_UnknownRoom(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(t)

	if _, err := svc.InitiateOrder(context.Background(), "acc_1", "room_missing"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	svc, orders, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})

	result, err := svc.InitiateOrder(context.Background(), account.ID, room.ID)
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	err = svc.VerifyPayment(context.Background(), ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "COMPLETE",
		Signature:  "sig:" + result.GatewayRef,
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	order, err := orders.FindByGatewayRef(context.Background(), result.GatewayRef)
	if err != nil {
		t.Fatalf("order lookup failed: %v", err)
	}
	if order.Status != domain.OrderPaid {
		t.Fatalf("expected paid order, got %s", order.Status)
	}

	paid, _ := accounts.FindByID(context.Background(), account.ID)
	if paid.ActivityStats.PaymentsMade != 1 || paid.ActivityStats.TotalAmountSpent != 12000 {
		t.Fatalf("payment counters not recorded: %+v", paid.ActivityStats)
	}
}

func TestPaymentService_VerifyPayment_BadSignature(t *testing.T) {
	svc, orders, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})
	result, _ := svc.InitiateOrder(context.Background(), account.ID, room.ID)

	err := svc.VerifyPayment(context.Background(), ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "COMPLETE",
		Signature:  "forged",
	})
	if !errors.Is(err, domain.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}

	// An unsigned caller must not move the order; the genuine callback may
	// still arrive.
	order, _ := orders.FindByGatewayRef(context.Background(), result.GatewayRef)
	if order.Status != domain.OrderPending {
		t.Fatalf("expected pending order after forged callback, got %s", order.Status)
	}
}

func TestPaymentService_VerifyPayment_GenuineCallbackAfterForged(t *testing.T) {
	svc, orders, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})
	result, _ := svc.InitiateOrder(context.Background(), account.ID, room.ID)

	forged := ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "COMPLETE",
		Signature:  "forged",
	}
	if err := svc.VerifyPayment(context.Background(), forged); !errors.Is(err, domain.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}

	genuine := ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "COMPLETE",
		Signature:  "sig:" + result.GatewayRef,
	}
	if err := svc.VerifyPayment(context.Background(), genuine); err != nil {
		t.Fatalf("genuine callback rejected after forged one: %v", err)
	}

	order, _ := orders.FindByGatewayRef(context.Background(), result.GatewayRef)
	if order.Status != domain.OrderPaid {
		t.Fatalf("expected paid order, got %s", order.Status)
	}
}

func TestPaymentService_VerifyPayment_SignedFailureStatus(t *testing.T) {
	svc, orders, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})
	result, _ := svc.InitiateOrder(context.Background(), account.ID, room.ID)

	err := svc.VerifyPayment(context.Background(), ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "CANCELED",
		Signature:  "sig:" + result.GatewayRef,
	})
	if !errors.Is(err, domain.ErrPaymentNotComplete) {
		t.Fatalf("expected ErrPaymentNotComplete, got %v", err)
	}

	order, _ := orders.FindByGatewayRef(context.Background(), result.GatewayRef)
	if order.Status != domain.OrderFailed {
		t.Fatalf("expected failed order, got %s", order.Status)
	}

	acc, _ := accounts.FindByID(context.Background(), account.ID)
	if acc.ActivityStats.PaymentsMade != 0 {
		t.Fatalf("payment recorded for an unsettled order: %+v", acc.ActivityStats)
	}
}

func TestPaymentService_VerifyPayment_AmountMismatch(t *testing.T) {
	svc, _, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})
	result, _ := svc.InitiateOrder(context.Background(), account.ID, room.ID)

	err := svc.VerifyPayment(context.Background(), ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "1",
		Status:     "COMPLETE",
		Signature:  "sig:" + result.GatewayRef,
	})
	if !errors.Is(err, domain.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for tampered amount, got %v", err)
	}
}

func TestPaymentService_VerifyPayment_Replay(t *testing.T) {
	svc, _, rooms, accounts := newPaymentFixture(t)

	account, _ := accounts.Create(context.Background(), &domain.Account{Name: "A", Email: "a@b.com"})
	room, _ := rooms.Create(context.Background(), &domain.RoomListing{Description: "Room", RentPrice: 12000, OwnerID: "acc_owner"})
	result, _ := svc.InitiateOrder(context.Background(), account.ID, room.ID)

	input := ports.VerifyPaymentInput{
		GatewayRef: result.GatewayRef,
		Amount:     "12000",
		Status:     "COMPLETE",
		Signature:  "sig:" + result.GatewayRef,
	}
	if err := svc.VerifyPayment(context.Background(), input); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if err := svc.VerifyPayment(context.Background(), input); !errors.Is(err, domain.ErrOrderNotPayable) {
		t.Fatalf("expected ErrOrderNotPayable on replay, got %v", err)
	}
}
