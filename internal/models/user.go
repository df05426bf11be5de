package models

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is an operator or administrator. Username is the login key and is
// matched case-insensitively; the PIN is stored as a bcrypt hash.
type User struct {
	ID       string `gorm:"primaryKey;size:64" json:"id"`
	Name     string `gorm:"size:100" json:"name"`
	Username string `gorm:"size:50;index" json:"username"`
	PinHash  string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:20;default:'employee'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}
