package models

// User roles.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents an authenticated customer or admin. Accounts are created
// either through username/password registration or on first OTP-verified
// phone login, so each unique column is optional.
type User struct {
	BaseModel
	Username        *string `gorm:"uniqueIndex" json:"username,omitempty"`
	Email           *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone           *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	PasswordHash    string  `json:"-"`
	IsPhoneVerified bool    `json:"is_phone_verified"`
	Role            string  `gorm:"default:CUSTOMER" json:"role"`
	Orders          []Order `json:"orders,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
