package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chocobar-app/server/internal/middleware"
	"github.com/chocobar-app/server/internal/models"
	"github.com/chocobar-app/server/internal/services"
	"github.com/chocobar-app/server/internal/utils"
)

var orderSortColumns = map[string]bool{
	"created_at":   true,
	"total_amount": true,
	"status":       true,
}

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"`
	OrderType     string             `json:"order_type"`
	ScheduledTime string             `json:"scheduled_time"`
	PaymentMethod string             `json:"payment_method"`
}

// CreateOrder places an order for the authenticated user. All prices come
// from the catalog; any client-supplied amount is ignored.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order must have at least one item")
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}
		if item.Quantity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be at least 1")
		}
		lines = append(lines, services.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	if req.OrderType != models.OrderTypeDelivery && req.OrderType != models.OrderTypePickup {
		return fiber.NewError(fiber.StatusBadRequest, "order type must be DELIVERY or PICKUP")
	}
	if req.PaymentMethod != models.PaymentMethodCash && req.PaymentMethod != models.PaymentMethodCard {
		return fiber.NewError(fiber.StatusBadRequest, "payment method must be CASH or CARD")
	}

	var scheduledTime *time.Time
	if req.ScheduledTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid scheduled time format")
		}
		scheduledTime = &parsed
	}

	order, err := h.orders.PlaceOrder(userID, lines, req.OrderType, scheduledTime, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCart) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// MyOrders returns the authenticated user's orders, paginated, newest
// first by default.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order status")
	}

	pg := utils.ParsePagination(c)
	sort := utils.ParseSort(c, orderSortColumns, "created_at desc")

	orders, total, err := h.orders.ListOrders(
		services.OrderFilter{UserID: &userID, Status: status},
		pg.Limit, pg.Offset, sort)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
