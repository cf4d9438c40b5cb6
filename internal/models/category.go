package models

import (
	"errors"
	"strings"
)

// Gender represents the gender restriction of a competition category
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderMixed  Gender = "MIXED"
)

// Category represents a competition category within an event
type Category struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Gender  Gender `json:"gender" db:"gender"`
	EventID int    `json:"event_id" db:"event_id"`

	// AthletesCount is populated by list queries, not stored
	AthletesCount int `json:"athletes_count,omitempty" db:"-"`
}

// CategoryCreateRequest represents the data needed to create a new category
type CategoryCreateRequest struct {
	Name    string `json:"name"`
	Gender  Gender `json:"gender"`
	EventID int    `json:"event_id"`
}

// Validate validates the category data
func (c *Category) Validate() error {
	if err := validateCategoryName(c.Name); err != nil {
		return err
	}
	return validateCategoryGender(c.Gender)
}

// Validate validates category creation data
func (req *CategoryCreateRequest) Validate() error {
	if err := validateCategoryName(req.Name); err != nil {
		return err
	}
	if req.EventID <= 0 {
		return errors.New("category event is required")
	}
	return validateCategoryGender(req.Gender)
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("category name is required")
	}
	if len(name) > 100 {
		return errors.New("category name cannot exceed 100 characters")
	}
	return nil
}

func validateCategoryGender(g Gender) error {
	switch g {
	case GenderMale, GenderFemale, GenderMixed, "":
		return nil
	default:
		return errors.New("category gender must be M, F or MIXED")
	}
}
