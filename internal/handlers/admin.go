package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/models"
	"github.com/chocobar-app/server/internal/services"
	"github.com/chocobar-app/server/internal/utils"
)

const maxUploadSize = 5 * 1024 * 1024

// AdminHandler manages admin-only endpoints: order oversight, product and
// category management, image upload.
type AdminHandler struct {
	db      *gorm.DB
	orders  *services.OrderService
	storage *services.StorageService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, orders *services.OrderService, storage *services.StorageService) *AdminHandler {
	return &AdminHandler{db: db, orders: orders, storage: storage}
}

type adminListOrdersRequest struct {
	Status string `json:"status"`
}

// ListOrders returns all orders, optionally filtered by status.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	// The status filter is optional, as is the body itself.
	var req adminListOrdersRequest
	_ = c.BodyParser(&req)
	if req.Status == "" {
		req.Status = c.Query("status")
	}

	if req.Status != "" && !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order status")
	}

	pg := utils.ParsePagination(c)
	sort := utils.ParseSort(c, orderSortColumns, "created_at desc")

	orders, total, err := h.orders.ListOrders(
		services.OrderFilter{Status: req.Status}, pg.Limit, pg.Offset, sort)
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

type updateOrderStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order along its lifecycle. Transitions that
// skip ahead or move backward are rejected.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}
	if !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order status")
	}

	order, err := h.orders.SetStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	CategoryID  string          `json:"category_id"`
	IsAvailable *bool           `json:"is_available"`
}

// CreateProduct adds a product to an existing category.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product name is required")
	}
	if req.Price.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  categoryID,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	product.Category = &category
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": product})
}

// ListProducts returns every product including unavailable ones.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Preload("Category").Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateProductRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *string          `json:"category_id"`
	IsAvailable *bool            `json:"is_available"`
}

// UpdateProduct applies a partial update; only provided fields change.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product name must not be empty")
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
		}
		var category models.Category
		if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "category not found")
			}
			return err
		}
		updates["category_id"] = categoryID
	}

	if len(updates) > 0 {
		if err := h.db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
	}

	if err := h.db.Preload("Category").First(&product, "id = ?", product.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "product": product})
}

type idRequest struct {
	ID string `json:"id"`
}

// DeleteProduct removes a product. Existing order items keep their price
// snapshot and product reference.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	var req idRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	result := h.db.Delete(&models.Product{}, "id = ?", productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

// ListCategories returns all categories with their product counts.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Preload("Products").Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory persists a new category with a unique name.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category name is required")
	}

	var existing models.Category
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "category with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "category": category})
}

type updateCategoryRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateCategory applies a partial update, keeping the name unique.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	categoryID, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category name must not be empty")
		}
		var existing models.Category
		if err := h.db.Where("name = ? AND id <> ?", *req.Name, categoryID).
			First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "category with this name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := h.db.Model(&category).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "category": category})
}

// DeleteCategory removes an empty category. Categories still owning
// products cannot be deleted.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	var req idRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	categoryID, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	var productCount int64
	if err := h.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return fiber.NewError(fiber.StatusConflict,
			"cannot delete category with existing products")
	}

	if err := h.db.Delete(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "category deleted"})
}

// UploadImage stores a product image in object storage and returns its
// public URL.
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no image file provided")
	}

	if file.Size > maxUploadSize {
		return fiber.NewError(fiber.StatusBadRequest, "image exceeds the 5MB size limit")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return fiber.NewError(fiber.StatusBadRequest, "only image files are allowed")
	}

	folder := c.FormValue("folder", "products")

	url, err := h.storage.UploadImage(c.Context(), file, folder)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"success": true, "url": url})
}
