package models

import (
	"errors"
	"strings"
	"time"
)

// Athlete represents a participant whose performance videos can be ordered
type Athlete struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	BirthDate   *time.Time `json:"birth_date" db:"birth_date"`
	Gender      Gender     `json:"gender" db:"gender"`
	ClubName    string     `json:"club_name" db:"club_name"`
	CategoryID  int        `json:"category_id" db:"category_id"`
	IsPair      bool       `json:"is_pair" db:"is_pair"`
	PartnerName string     `json:"partner_name" db:"partner_name"`
}

// AthleteCreateRequest represents the data needed to create a new athlete
type AthleteCreateRequest struct {
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date"`
	Gender      Gender     `json:"gender"`
	ClubName    string     `json:"club_name"`
	CategoryID  int        `json:"category_id"`
	IsPair      bool       `json:"is_pair"`
	PartnerName string     `json:"partner_name"`
}

// DisplayName returns the athlete name, including the partner for pairs
func (a *Athlete) DisplayName() string {
	if a.IsPair && a.PartnerName != "" {
		return a.Name + " / " + a.PartnerName
	}
	return a.Name
}

// Validate validates the athlete data
func (a *Athlete) Validate() error {
	return validateAthlete(a.Name, a.IsPair, a.PartnerName)
}

// Validate validates athlete creation data
func (req *AthleteCreateRequest) Validate() error {
	if req.CategoryID <= 0 {
		return errors.New("athlete category is required")
	}
	return validateAthlete(req.Name, req.IsPair, req.PartnerName)
}

func validateAthlete(name string, isPair bool, partnerName string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("athlete name is required")
	}
	if len(name) > 100 {
		return errors.New("athlete name cannot exceed 100 characters")
	}
	if isPair && strings.TrimSpace(partnerName) == "" {
		return errors.New("partner name is required for pair athletes")
	}
	return nil
}
