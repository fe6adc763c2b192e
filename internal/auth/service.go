// Package auth handles registration and login. The allocation core never
// sees credentials; it consumes only the verified identity the session
// layer produces.
package auth

import (
	"errors"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput for the public registration route. Role is always forced
// to "user"; admins are seeded, never registered.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
}

// LoginUser finds user by email and verifies password.
func LoginUser(db *gorm.DB, input LoginInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u domain.User
	if err := db.Where("email = ?", input.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

// RegisterUser creates a normal user account with a bcrypt-hashed password.
func RegisterUser(db *gorm.DB, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, errors.New("Password must be at least 8 characters with a letter, a number and a special character")
	}
	if input.FullName == "" {
		return nil, errors.New("Full name is required")
	}

	var existing domain.User
	err := db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Address:      input.Address,
		PinCode:      input.PinCode,
		Role:         domain.RoleUser,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SeedAdmin creates the admin account on first startup if it does not
// exist. A blank password disables seeding.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if password == "" {
		return nil
	}
	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Admin User",
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("admin user seeded")
	return nil
}

// IdentityOf maps a user row to the session identity.
func IdentityOf(u *domain.User) domain.Identity {
	return domain.Identity{
		UserID:   u.ID,
		Role:     u.Role,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
