package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{"+15551234567", "15551234567", "+998901234567", "+442071838750"}
	invalid := []string{"", "+0123", "abc", "+1 555 123", "0015551234567", "+1555123456789012345"}

	for _, p := range valid {
		if !ValidPhoneNumber(p) {
			t.Errorf("ValidPhoneNumber(%q) = false, want true", p)
		}
	}
	for _, p := range invalid {
		if ValidPhoneNumber(p) {
			t.Errorf("ValidPhoneNumber(%q) = true, want false", p)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := GenerateToken(secret, userID, "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsedID, role, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsedID != userID {
		t.Errorf("user id = %s, want %s", parsedID, userID)
	}
	if role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", uuid.New(), "CUSTOMER", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("ParseToken accepted a token signed with another secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "CUSTOMER", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, _, err := ParseToken("secret", token); err == nil {
		t.Fatal("ParseToken accepted an expired token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword(hash, "hunter2") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func paginationFor(t *testing.T, target string) Pagination {
	t.Helper()

	var pg Pagination
	app := fiber.New()
	app.Get("/orders", func(c *fiber.Ctx) error {
		pg = ParsePagination(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	return pg
}

func TestParsePagination(t *testing.T) {
	pg := paginationFor(t, "/orders?page=3&limit=10")
	if pg.Page != 3 || pg.Limit != 10 || pg.Offset != 20 {
		t.Errorf("got %+v, want page 3, limit 10, offset 20", pg)
	}

	pg = paginationFor(t, "/orders?page=-1&limit=0")
	if pg.Page != 1 || pg.Limit != 20 || pg.Offset != 0 {
		t.Errorf("defaults not applied: %+v", pg)
	}
}

func TestParseSort(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "total_amount": true}

	var sort string
	app := fiber.New()
	app.Get("/orders", func(c *fiber.Ctx) error {
		sort = ParseSort(c, allowed, "created_at desc")
		return nil
	})

	for target, want := range map[string]string{
		"/orders?sort=total_amount&dir=asc": "total_amount asc",
		"/orders?sort=total_amount":         "total_amount desc",
		"/orders?sort=password_hash":        "created_at desc",
		"/orders":                           "created_at desc",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if sort != want {
			t.Errorf("%s: sort = %q, want %q", target, sort, want)
		}
	}
}
