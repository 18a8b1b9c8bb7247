package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/models"
)

// Errors surfaced by the order service. Handlers map them to HTTP statuses.
var (
	ErrInvalidCart       = errors.New("one or more products are invalid or unavailable")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderNotFound     = errors.New("order not found")
)

// OrderLine is a single requested cart entry. Prices never arrive from the
// client; they are resolved through the catalog.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderFilter narrows ListOrders results.
type OrderFilter struct {
	UserID *uuid.UUID
	Status string
}

// OrderService validates carts, computes totals and persists orders
// atomically.
type OrderService struct {
	db      *gorm.DB
	catalog CatalogReader
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, catalog CatalogReader) *OrderService {
	return &OrderService{db: db, catalog: catalog}
}

// PlaceOrder resolves the cart against the live catalog, computes the total
// server-side, and creates the order, its items and the optional payment
// stub in one transaction. No partial order is ever visible: either every
// row commits or none do.
func (s *OrderService) PlaceOrder(userID uuid.UUID, lines []OrderLine, orderType string, scheduledTime *time.Time, paymentMethod string) (*models.Order, error) {
	ids := distinctProductIDs(lines)

	products, err := s.catalog.AvailableProducts(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrInvalidCart
	}

	items, total := buildOrderItems(products, lines)

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusPending,
		OrderType:     orderType,
		ScheduledTime: scheduledTime,
		TotalAmount:   total,
		Items:         items,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if paymentMethod == models.PaymentMethodCard {
			payment := &models.Payment{
				OrderID: order.ID,
				Amount:  total,
				Status:  models.PaymentStatusPending,
			}
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
			order.Payment = payment
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("order creation failed: %w", err)
	}

	return order, nil
}

// ListOrders returns a page of orders matching the filter, newest first
// unless told otherwise, together with the total match count.
func (s *OrderService) ListOrders(filter OrderFilter, limit, offset int, sort string) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Items.Product").Preload("Payment")
	if filter.UserID == nil {
		query = query.Preload("User")
	}

	var orders []models.Order
	if err := query.Order(sort).Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// SetStatus moves an order to newStatus, enforcing the forward-only
// lifecycle.
func (s *OrderService) SetStatus(orderID uuid.UUID, newStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !models.CanTransition(order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	if err := s.db.Model(&order).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items.Product").Preload("Payment").Preload("User").
		First(&order, "id = ?", order.ID).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

func distinctProductIDs(lines []OrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// buildOrderItems snapshots each line's price from the resolved product and
// accumulates the total with fixed-point arithmetic.
func buildOrderItems(products []models.Product, lines []OrderLine) ([]models.OrderItem, decimal.Decimal) {
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		product := byID[line.ProductID]
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			Quantity:     line.Quantity,
			PriceAtOrder: product.Price,
		})
	}

	return items, total
}
