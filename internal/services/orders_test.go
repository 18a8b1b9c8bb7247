package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chocobar-app/server/internal/models"
)

type fakeCatalog struct {
	products []models.Product
	err      error
}

func (f *fakeCatalog) AvailableProducts(ids []uuid.UUID) ([]models.Product, error) {
	return f.products, f.err
}

func product(price string) models.Product {
	p := models.Product{
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	p.ID = uuid.New()
	return p
}

func TestBuildOrderItemsTotal(t *testing.T) {
	cocoa := product("3.50")
	waffle := product("5.00")

	items, total := buildOrderItems(
		[]models.Product{cocoa, waffle},
		[]OrderLine{
			{ProductID: cocoa.ID, Quantity: 2},
			{ProductID: waffle.ID, Quantity: 1},
		},
	)

	if want := decimal.RequireFromString("12.00"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if !items[0].PriceAtOrder.Equal(cocoa.Price) {
		t.Fatalf("priceAtOrder = %s, want %s", items[0].PriceAtOrder, cocoa.Price)
	}
	if items[0].Quantity != 2 || items[1].Quantity != 1 {
		t.Fatalf("quantities = %d, %d, want 2, 1", items[0].Quantity, items[1].Quantity)
	}
}

func TestBuildOrderItemsNoFloatDrift(t *testing.T) {
	// 0.1 * 3 is the classic binary-float trap; fixed-point must stay exact.
	p := product("0.10")

	_, total := buildOrderItems(
		[]models.Product{p},
		[]OrderLine{{ProductID: p.ID, Quantity: 3}},
	)

	if want := decimal.RequireFromString("0.30"); !total.Equal(want) {
		t.Fatalf("total = %s, want %s", total, want)
	}
}

func TestPlaceOrderRejectsUnresolvedProducts(t *testing.T) {
	available := product("3.50")
	missing := uuid.New()

	svc := NewOrderService(nil, &fakeCatalog{products: []models.Product{available}})

	_, err := svc.PlaceOrder(uuid.New(),
		[]OrderLine{
			{ProductID: available.ID, Quantity: 1},
			{ProductID: missing, Quantity: 1},
		},
		models.OrderTypePickup, nil, models.PaymentMethodCash)

	if !errors.Is(err, ErrInvalidCart) {
		t.Fatalf("PlaceOrder = %v, want ErrInvalidCart", err)
	}
}

func TestPlaceOrderCatalogError(t *testing.T) {
	catalogErr := errors.New("catalog down")
	svc := NewOrderService(nil, &fakeCatalog{err: catalogErr})

	_, err := svc.PlaceOrder(uuid.New(),
		[]OrderLine{{ProductID: uuid.New(), Quantity: 1}},
		models.OrderTypeDelivery, nil, models.PaymentMethodCash)

	if !errors.Is(err, catalogErr) {
		t.Fatalf("PlaceOrder = %v, want catalog error", err)
	}
}

func TestDistinctProductIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	ids := distinctProductIDs([]OrderLine{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 2},
		{ProductID: a, Quantity: 3},
	})

	if len(ids) != 2 {
		t.Fatalf("distinct ids = %d, want 2", len(ids))
	}
}
