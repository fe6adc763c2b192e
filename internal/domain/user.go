package domain

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can hold at most one active reservation.
// The allocation engine only ever sees the user ID; authentication lives
// in the auth package.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FullName     string    `gorm:"column:full_name;not null" json:"full_name"`
	Address      string    `gorm:"column:address" json:"address"`
	PinCode      string    `gorm:"column:pin_code" json:"pin_code"`
	Role         string    `gorm:"column:role;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the verified (user, role) pair the session layer hands to
// handlers. The core trusts it and does not re-authenticate.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
