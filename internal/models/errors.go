package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrAthleteNotFound   = errors.New("athlete not found")
	ErrVideoTypeNotFound = errors.New("video type not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateEntry    = errors.New("duplicate entry")
)
