package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/models"
)

// MenuHandler serves the public catalog.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

type listProductsRequest struct {
	CategoryID string `json:"category_id"`
}

// ListProducts returns every available product, optionally filtered by
// category. The category filter may arrive in the body (POST) or as a
// query param (GET).
func (h *MenuHandler) ListProducts(c *fiber.Ctx) error {
	var req listProductsRequest
	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	} else {
		req.CategoryID = c.Query("category_id")
	}

	query := h.db.Where("is_available = ?", true)

	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
		}
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	if err := query.Preload("Category").Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "products": products})
}
