package models

import (
	"errors"
	"strings"
)

// VideoType represents a purchasable video product variant
type VideoType struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Price       int    `json:"price" db:"price"` // Price in minor currency units
	IsActive    bool   `json:"is_active" db:"is_active"`
}

// VideoTypeCreateRequest represents the data needed to create a new video type
type VideoTypeCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// Validate validates the video type data
func (vt *VideoType) Validate() error {
	return validateVideoType(vt.Name, vt.Price)
}

// Validate validates video type creation data
func (req *VideoTypeCreateRequest) Validate() error {
	return validateVideoType(req.Name, req.Price)
}

func validateVideoType(name string, price int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("video type name is required")
	}
	if len(name) > 50 {
		return errors.New("video type name cannot exceed 50 characters")
	}
	if price <= 0 {
		return errors.New("video type price must be positive")
	}
	return nil
}
