package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/models"
	"github.com/chocobar-app/server/internal/otp"
	"github.com/chocobar-app/server/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:       "development",
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}
}

func TestSendOTPRejectsInvalidPhone(t *testing.T) {
	codes := otp.NewMemoryStore()
	h := NewAuthHandler(nil, testConfig(), codes, services.NewSMSService("", "", ""))

	app := fiber.New()
	app.Post("/send-otp", h.SendOTP)

	payload, _ := json.Marshal(map[string]string{"phone_number": "not-a-phone"})
	req := httptest.NewRequest("POST", "/send-otp", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSendOTPStoresCodeInDevMode(t *testing.T) {
	codes := otp.NewMemoryStore()
	h := NewAuthHandler(nil, testConfig(), codes, services.NewSMSService("", "", ""))

	app := fiber.New()
	app.Post("/send-otp", h.SendOTP)

	payload, _ := json.Marshal(map[string]string{"phone_number": "+15551234567"})
	req := httptest.NewRequest("POST", "/send-otp", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// A mismatching verify proves an entry was stored for the number.
	if err := codes.Verify("+15551234567", "999999"); !errors.Is(err, otp.ErrMismatch) {
		t.Fatalf("Verify = %v, want ErrMismatch (code stored)", err)
	}
}

func TestWebhookWithoutSecret(t *testing.T) {
	h := NewPaymentHandler(nil, testConfig())

	app := fiber.New()
	app.Post("/webhook", h.Webhook)

	resp, err := app.Test(httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{}`))))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	cfg := testConfig()
	cfg.StripeWebhookSecret = "whsec_test"
	h := NewPaymentHandler(nil, cfg)

	app := fiber.New()
	app.Post("/webhook", h.Webhook)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{"type":"payment_intent.succeeded"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPaymentStatusForEvent(t *testing.T) {
	tests := []struct {
		eventType string
		status    string
		ok        bool
	}{
		{"payment_intent.succeeded", models.PaymentStatusSuccess, true},
		{"payment_intent.payment_failed", models.PaymentStatusFailed, true},
		{"payment_intent.created", "", false},
		{"charge.refunded", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		status, ok := paymentStatusForEvent(tt.eventType)
		if status != tt.status || ok != tt.ok {
			t.Errorf("paymentStatusForEvent(%q) = (%q, %v), want (%q, %v)",
				tt.eventType, status, ok, tt.status, tt.ok)
		}
	}
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"12.00", 1200},
		{"3.50", 350},
		{"0.10", 10},
		{"0", 0},
	}

	for _, tt := range tests {
		if got := amountInCents(decimal.RequireFromString(tt.amount)); got != tt.cents {
			t.Errorf("amountInCents(%s) = %d, want %d", tt.amount, got, tt.cents)
		}
	}
}
