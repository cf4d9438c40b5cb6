package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{Price: 1499, Quantity: 1}
	assert.Equal(t, 1499, item.Subtotal())

	item.Quantity = 3
	assert.Equal(t, 4497, item.Subtotal())
}

func TestCartItem_Validate(t *testing.T) {
	valid := CartItem{
		AthleteID:     5,
		AthleteName:   "Anna Petrova",
		EventID:       1,
		CategoryID:    2,
		VideoTypeID:   3,
		VideoTypeName: "Sport version",
		Price:         1499,
		Quantity:      1,
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing athlete", func(t *testing.T) {
		item := valid
		item.AthleteID = 0
		assert.EqualError(t, item.Validate(), "cart item athlete is required")
	})

	t.Run("missing video type", func(t *testing.T) {
		item := valid
		item.VideoTypeID = 0
		assert.EqualError(t, item.Validate(), "cart item video type is required")
	})

	t.Run("negative price", func(t *testing.T) {
		item := valid
		item.Price = -1
		assert.EqualError(t, item.Validate(), "cart item price cannot be negative")
	})

	t.Run("zero quantity", func(t *testing.T) {
		item := valid
		item.Quantity = 0
		assert.EqualError(t, item.Validate(), "cart item quantity must be positive")
	})
}
