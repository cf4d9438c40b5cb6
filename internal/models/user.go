package models

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleMom      UserRole = "MOM"
	RoleOperator UserRole = "OPERATOR"
	RoleCustomer UserRole = "CUSTOMER"
)

// User represents a user account
type User struct {
	ID           int        `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Phone        string     `json:"phone" db:"phone"`
	TelegramID   string     `json:"telegram_id" db:"telegram_id"`
	Role         UserRole   `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
}

// IsStaff reports whether the user has a back-office role
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleMom || u.Role == RoleOperator
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate validates the user data
func (u *User) Validate() error {
	if err := ValidateContactEmail(u.Email); err != nil {
		return err
	}
	if strings.TrimSpace(u.FullName) == "" {
		return errors.New("user full name is required")
	}
	return validateUserRole(u.Role)
}

func validateUserRole(role UserRole) error {
	switch role {
	case RoleAdmin, RoleMom, RoleOperator, RoleCustomer:
		return nil
	default:
		return errors.New("invalid user role")
	}
}

// GeneratePassword generates a random password with letters and digits,
// guaranteed to contain at least one of each.
func GeneratePassword() (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const digits = "0123456789"
	const alphabet = letters + digits

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	buf := make([]byte, 10)
	var err error
	if buf[0], err = pick(letters); err != nil {
		return "", err
	}
	if buf[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < len(buf); i++ {
		if buf[i], err = pick(alphabet); err != nil {
			return "", err
		}
	}

	// Shuffle so the guaranteed characters are not always first
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}
