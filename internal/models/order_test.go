package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	number := GenerateOrderNumber()
	assert.True(t, strings.HasPrefix(number, "MS"))
	assert.Len(t, number, 16) // MS + YYYYMMDDHHMMSS
}

func TestGenerateHumanOrderNumber(t *testing.T) {
	number := GenerateHumanOrderNumber()
	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "MS", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid order",
			order: Order{
				ContactEmail: "mom@example.com",
				VideoTypeIDs: []int{1, 2},
				TotalAmount:  2498,
				Status:       OrderCheckoutInitiated,
			},
			wantErr: false,
		},
		{
			name: "missing email",
			order: Order{
				VideoTypeIDs: []int{1},
				Status:       OrderCheckoutInitiated,
			},
			wantErr: true,
			errMsg:  "contact email is required",
		},
		{
			name: "invalid email",
			order: Order{
				ContactEmail: "not-an-email",
				VideoTypeIDs: []int{1},
				Status:       OrderCheckoutInitiated,
			},
			wantErr: true,
			errMsg:  "contact email format is invalid",
		},
		{
			name: "no video types",
			order: Order{
				ContactEmail: "mom@example.com",
				Status:       OrderCheckoutInitiated,
			},
			wantErr: true,
			errMsg:  "order must contain at least one video type",
		},
		{
			name: "unknown status",
			order: Order{
				ContactEmail: "mom@example.com",
				VideoTypeIDs: []int{1},
				Status:       "shipped",
			},
			wantErr: true,
			errMsg:  "invalid order status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Order.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("Order.Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestOrder_IsPaymentExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(10 * time.Minute)

	expired := Order{Status: OrderAwaitingPayment, PaymentExpiresAt: &past}
	assert.True(t, expired.IsPaymentExpired())

	pending := Order{Status: OrderAwaitingPayment, PaymentExpiresAt: &future}
	assert.False(t, pending.IsPaymentExpired())

	// Only awaiting_payment orders can expire
	paid := Order{Status: OrderPaid, PaymentExpiresAt: &past}
	assert.False(t, paid.IsPaymentExpired())

	noDeadline := Order{Status: OrderAwaitingPayment}
	assert.False(t, noDeadline.IsPaymentExpired())
}

func TestOrder_IsOverdue(t *testing.T) {
	old := Order{Status: OrderProcessing, CreatedAt: time.Now().Add(-5 * 24 * time.Hour)}
	assert.True(t, old.IsOverdue())

	fresh := Order{Status: OrderProcessing, CreatedAt: time.Now().Add(-time.Hour)}
	assert.False(t, fresh.IsOverdue())

	completed := Order{Status: OrderCompleted, CreatedAt: time.Now().Add(-10 * 24 * time.Hour)}
	assert.False(t, completed.IsOverdue())
}
