package models

import (
	"errors"
	"strings"
	"time"
)

// Event represents a tournament whose videos are sold in the shop
type Event struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Place     string     `json:"place" db:"place"`
	StartDate *time.Time `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Name      string     `json:"name"`
	Place     string     `json:"place"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Validate validates the event data
func (e *Event) Validate() error {
	if err := validateEventName(e.Name); err != nil {
		return err
	}
	return validateEventDates(e.StartDate, e.EndDate)
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if err := validateEventName(req.Name); err != nil {
		return err
	}
	return validateEventDates(req.StartDate, req.EndDate)
}

func validateEventName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("event name is required")
	}
	if len(name) > 200 {
		return errors.New("event name cannot exceed 200 characters")
	}
	return nil
}

func validateEventDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("event end date cannot be before start date")
	}
	return nil
}

// IsUpcoming reports whether the event has not started yet
func (e *Event) IsUpcoming() bool {
	return e.StartDate != nil && e.StartDate.After(time.Now())
}
