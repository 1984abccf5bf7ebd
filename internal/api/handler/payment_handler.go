package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/api/metrics"
	"github.com/gharfindr/rental-api/internal/core/ports"
)

// PaymentHandler initiates gateway checkout orders and receives the
// gateway's verification callback.
type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type initiateOrderResponse struct {
	Success     bool              `json:"success"`
	OrderID     string            `json:"order_id"`
	GatewayRef  string            `json:"gateway_ref"`
	Amount      float64           `json:"amount"`
	RedirectURL string            `json:"redirect_url"`
	Fields      map[string]string `json:"fields"`
}

type verifyPaymentRequest struct {
	TransactionUUID string `json:"transaction_uuid" validate:"required"`
	TotalAmount     string `json:"total_amount" validate:"required"`
	Status          string `json:"status" validate:"required"`
	Signature       string `json:"signature" validate:"required"`
}

// InitiateOrder creates a pending payment order for a room and returns the
// signed checkout payload.
//
// @Summary      Initiate a payment order for a room
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        roomID  path  string  true  "Room id"
// @Success      201  {object}  initiateOrderResponse
// @Failure      404  {object}  map[string]string
// @Router       /payments/orders/{roomID} [post]
func (h *PaymentHandler) InitiateOrder(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.payments.InitiateOrder(c.Request().Context(), actor.AccountID, c.Param("roomID"))
	if err != nil {
		return err
	}

	metrics.PaymentsInitiatedTotal.Inc()
	return c.JSON(http.StatusCreated, initiateOrderResponse{
		Success:     true,
		OrderID:     result.OrderID,
		GatewayRef:  result.GatewayRef,
		Amount:      result.Amount,
		RedirectURL: result.RedirectURL,
		Fields:      result.Fields,
	})
}

// Verify consumes the gateway callback, checks the signature and settles the
// order. Replayed callbacks for an already-settled order are rejected.
//
// @Summary      Verify a gateway payment callback
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  verifyPaymentRequest  true  "Gateway callback payload"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.payments.VerifyPayment(c.Request().Context(), ports.VerifyPaymentInput{
		GatewayRef: req.TransactionUUID,
		Amount:     req.TotalAmount,
		Status:     req.Status,
		Signature:  req.Signature,
	})
	if err != nil {
		metrics.PaymentsVerifiedTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.PaymentsVerifiedTotal.WithLabelValues("paid").Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "payment verified"})
}
