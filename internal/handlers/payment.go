package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/middleware"
	"github.com/chocobar-app/server/internal/models"
)

// PaymentHandler creates Stripe payment intents and reconciles webhook
// events against payment records.
type PaymentHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewPaymentHandler constructs PaymentHandler and configures the Stripe
// client key.
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentHandler{db: db, cfg: cfg}
}

type createIntentRequest struct {
	OrderID string `json:"order_id"`
}

// CreateIntent opens a Stripe payment intent for an order owned by the
// caller. The charged amount is always the order's server-computed total.
// Without a Stripe key a mock intent is returned for development.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.db.Preload("Payment").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.UserID != userID {
		return fiber.NewError(fiber.StatusForbidden, "unauthorized access to this order")
	}

	if order.Payment != nil && order.Payment.Status == models.PaymentStatusSuccess {
		return fiber.NewError(fiber.StatusBadRequest, "order already paid")
	}

	if h.cfg.StripeSecretKey == "" {
		// Development mode: no gateway call, mock client secret.
		if err := h.upsertPayment(&order, ""); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"client_secret": "mock_client_secret_" + order.ID.String(),
			"amount":        order.TotalAmount,
			"order_id":      order.ID,
		})
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents(order.TotalAmount)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Metadata: map[string]string{
			"order_id": order.ID.String(),
			"user_id":  userID.String(),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("[Payment] intent creation failed for order %s: %v", order.ID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create payment intent")
	}

	if err := h.upsertPayment(&order, intent.ID); err != nil {
		return err
	}

	log.Printf("[Payment] intent %s created for order %s", intent.ID, order.ID)

	return c.JSON(fiber.Map{
		"client_secret": intent.ClientSecret,
		"amount":        order.TotalAmount,
		"order_id":      order.ID,
	})
}

// upsertPayment creates or refreshes the pending payment record for the
// order with the given gateway transaction id.
func (h *PaymentHandler) upsertPayment(order *models.Order, transactionID string) error {
	if order.Payment != nil {
		return h.db.Model(order.Payment).Updates(map[string]any{
			"transaction_id": transactionID,
			"amount":         order.TotalAmount,
			"status":         models.PaymentStatusPending,
		}).Error
	}

	payment := models.Payment{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Status:        models.PaymentStatusPending,
		TransactionID: transactionID,
	}
	return h.db.Create(&payment).Error
}

// Webhook receives payment-outcome events from Stripe. The body must stay
// raw until the signature is verified. Events referencing unknown orders
// are logged and acknowledged anyway so the gateway does not retry forever.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	if h.cfg.StripeWebhookSecret == "" {
		log.Println("[Payment] webhook secret not configured")
		return fiber.NewError(fiber.StatusBadRequest, "webhook secret not configured")
	}

	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.cfg.StripeWebhookSecret)
	if err != nil {
		log.Printf("[Payment] webhook signature verification failed: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid webhook signature")
	}

	status, ok := paymentStatusForEvent(string(event.Type))
	if !ok {
		// Unknown event types are acknowledged and ignored.
		return c.JSON(fiber.Map{"received": true})
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("[Payment] failed to decode payment intent: %v", err)
		return c.JSON(fiber.Map{"received": true})
	}

	h.reconcile(intent.Metadata["order_id"], status, intent.ID)

	return c.JSON(fiber.Map{"received": true})
}

// reconcile applies the event outcome to the matching payment row. Setting
// an absolute status keeps redelivered events idempotent. Failures are
// logged, never surfaced to the gateway.
func (h *PaymentHandler) reconcile(orderID, status, transactionID string) {
	if orderID == "" {
		log.Println("[Payment] webhook event missing order_id metadata")
		return
	}

	result := h.db.Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":         status,
			"transaction_id": transactionID,
		})

	if result.Error != nil {
		log.Printf("[Payment] failed to update payment for order %s: %v", orderID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("[Payment] no payment record for order %s, event dropped", orderID)
		return
	}

	log.Printf("[Payment] order %s payment marked %s (%s)", orderID, status, transactionID)
}

// paymentStatusForEvent maps a gateway event type to the payment status it
// implies. Unmapped event types are ignored by the reconciler.
func paymentStatusForEvent(eventType string) (string, bool) {
	switch eventType {
	case "payment_intent.succeeded":
		return models.PaymentStatusSuccess, true
	case "payment_intent.payment_failed":
		return models.PaymentStatusFailed, true
	default:
		return "", false
	}
}

// amountInCents converts a decimal dollar amount to Stripe's integer cents.
func amountInCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
