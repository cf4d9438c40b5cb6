package models

import "errors"

// CartItem represents one line in the shopping cart: a single video of a
// given type for a given athlete. Duplicate selections produce duplicate
// lines; quantity is not merged by identity.
type CartItem struct {
	AthleteID     int    `json:"athlete_id"`
	AthleteName   string `json:"athlete_name"`
	EventID       int    `json:"event_id"`
	EventName     string `json:"event_name"`
	CategoryID    int    `json:"category_id"`
	CategoryName  string `json:"category_name"`
	VideoTypeID   int    `json:"video_type_id"`
	VideoTypeName string `json:"video_type_name"`
	Price         int    `json:"price"` // Price in minor currency units
	Quantity      int    `json:"quantity"`
}

// Subtotal returns price times quantity for this line
func (i CartItem) Subtotal() int {
	return i.Price * i.Quantity
}

// Validate validates the cart item data
func (i CartItem) Validate() error {
	if i.AthleteID <= 0 {
		return errors.New("cart item athlete is required")
	}
	if i.VideoTypeID <= 0 {
		return errors.New("cart item video type is required")
	}
	if i.Price < 0 {
		return errors.New("cart item price cannot be negative")
	}
	if i.Quantity <= 0 {
		return errors.New("cart item quantity must be positive")
	}
	return nil
}
