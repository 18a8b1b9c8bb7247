package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/middleware"
	"github.com/chocobar-app/server/internal/models"
	"github.com/chocobar-app/server/internal/otp"
	"github.com/chocobar-app/server/internal/services"
	"github.com/chocobar-app/server/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	codes otp.Store
	sms   *services.SMSService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, codes otp.Store, sms *services.SMSService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, codes: codes, sms: sms}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// SendOTP generates a one-time code for the given phone number and delivers
// it via SMS (or the log in dev mode).
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidPhoneNumber(req.PhoneNumber) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number format")
	}

	code, err := otp.Generate()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	if err := h.codes.Store(req.PhoneNumber, code); err != nil {
		return err
	}

	if err := h.sms.SendOTP(req.PhoneNumber, code); err != nil {
		log.Printf("[Auth] OTP delivery to %s failed: %v", req.PhoneNumber, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send OTP")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// VerifyOTP validates a submitted code, creating the user on first
// successful phone login, and returns a session token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PhoneNumber == "" || len(req.Code) != 6 {
		return fiber.NewError(fiber.StatusBadRequest, "phone number and 6-digit code are required")
	}

	if err := h.codes.Verify(req.PhoneNumber, req.Code); err != nil {
		switch {
		case errors.Is(err, otp.ErrNotFound),
			errors.Is(err, otp.ErrExpired),
			errors.Is(err, otp.ErrMismatch):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	// Find or create the user for this phone number.
	var user models.User
	err := h.db.Where("phone = ?", req.PhoneNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Phone:           &req.PhoneNumber,
			Role:            models.RoleCustomer,
			IsPhoneVerified: true,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else if !user.IsPhoneVerified {
		if err := h.db.Model(&user).Update("is_phone_verified", true).Error; err != nil {
			return err
		}
		user.IsPhoneVerified = true
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Register creates a new user account with username and password.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}
	if req.Phone != "" && !utils.ValidPhoneNumber(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number format")
	}

	dup := h.db.Where("username = ?", req.Username)
	if req.Email != "" {
		dup = dup.Or("email = ?", req.Email)
	}
	if req.Phone != "" {
		dup = dup.Or("phone = ?", req.Phone)
	}

	var existing models.User
	if err := h.db.Where(dup).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user with this username, email or phone already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Username:     &req.Username,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an existing user by username and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}
