package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderDraft             OrderStatus = "draft"
	OrderCheckoutInitiated OrderStatus = "checkout_initiated"
	OrderAwaitingPayment   OrderStatus = "awaiting_payment"
	OrderPaid              OrderStatus = "paid"
	OrderProcessing        OrderStatus = "processing"
	OrderReady             OrderStatus = "ready"
	OrderLinksSent         OrderStatus = "links_sent"
	OrderCompleted         OrderStatus = "completed"
	OrderCancelledUnpaid   OrderStatus = "cancelled_unpaid"
	OrderCancelledManual   OrderStatus = "cancelled_manual"
)

// PaymentTTL is how long an order may sit in awaiting_payment before the
// cleanup task cancels it.
const PaymentTTL = 15 * time.Minute

// Order represents a video package order
type Order struct {
	ID               int         `json:"id" db:"id"`
	OrderNumber      string      `json:"order_number" db:"order_number"`
	HumanOrderNumber string      `json:"human_order_number" db:"human_order_number"`
	CustomerID       *int        `json:"customer_id" db:"customer_id"`
	EventID          int         `json:"event_id" db:"event_id"`
	CategoryID       int         `json:"category_id" db:"category_id"`
	AthleteID        int         `json:"athlete_id" db:"athlete_id"`
	VideoTypeIDs     []int       `json:"video_type_ids" db:"video_type_ids"` // JSON column
	TotalAmount      int         `json:"total_amount" db:"total_amount"`     // Amount in minor units
	Status           OrderStatus `json:"status" db:"status"`

	ContactEmail     string `json:"contact_email" db:"contact_email"`
	ContactPhone     string `json:"contact_phone" db:"contact_phone"`
	ContactFirstName string `json:"contact_first_name" db:"contact_first_name"`
	ContactLastName  string `json:"contact_last_name" db:"contact_last_name"`
	Comment          string `json:"comment" db:"comment"`

	PaymentExpiresAt   *time.Time `json:"payment_expires_at" db:"payment_expires_at"`
	CancellationReason string     `json:"cancellation_reason" db:"cancellation_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

var orderEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// GenerateOrderNumber generates the internal order number, MS{timestamp}
func GenerateOrderNumber() string {
	return "MS" + time.Now().Format("20060102150405")
}

// GenerateHumanOrderNumber generates the customer-facing order number,
// MS-YYYYMMDD-XXXX
func GenerateHumanOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return "MS-" + time.Now().Format("20060102") + "-" + suffix
}

// Validate validates the order data
func (o *Order) Validate() error {
	if err := ValidateContactEmail(o.ContactEmail); err != nil {
		return err
	}
	if len(o.VideoTypeIDs) == 0 {
		return errors.New("order must contain at least one video type")
	}
	if o.TotalAmount < 0 {
		return errors.New("order total cannot be negative")
	}
	return validateOrderStatus(o.Status)
}

// Valid reports whether the status is one the shop knows
func (s OrderStatus) Valid() bool {
	return validateOrderStatus(s) == nil
}

func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderDraft, OrderCheckoutInitiated, OrderAwaitingPayment, OrderPaid,
		OrderProcessing, OrderReady, OrderLinksSent, OrderCompleted,
		OrderCancelledUnpaid, OrderCancelledManual:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// ValidateContactEmail validates an order contact email address
func ValidateContactEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("contact email is required")
	}
	if !orderEmailRegex.MatchString(email) {
		return errors.New("contact email format is invalid")
	}
	return nil
}

// IsPaymentExpired reports whether the payment window has elapsed
func (o *Order) IsPaymentExpired() bool {
	return o.Status == OrderAwaitingPayment &&
		o.PaymentExpiresAt != nil &&
		time.Now().After(*o.PaymentExpiresAt)
}

// IsOverdue reports whether a processing order is older than four days
func (o *Order) IsOverdue() bool {
	return o.Status == OrderProcessing &&
		time.Since(o.CreatedAt) > 4*24*time.Hour
}

// IsCancelled reports whether the order reached a cancelled state
func (o *Order) IsCancelled() bool {
	return o.Status == OrderCancelledUnpaid || o.Status == OrderCancelledManual
}

// StatusDisplay returns a human-readable status name
func (o *Order) StatusDisplay() string {
	displays := map[OrderStatus]string{
		OrderDraft:             "Draft",
		OrderCheckoutInitiated: "Checkout initiated",
		OrderAwaitingPayment:   "Awaiting payment",
		OrderPaid:              "Paid",
		OrderProcessing:        "Processing",
		OrderReady:             "Ready",
		OrderLinksSent:         "Links sent",
		OrderCompleted:         "Completed",
		OrderCancelledUnpaid:   "Cancelled (unpaid)",
		OrderCancelledManual:   "Cancelled manually",
	}
	if d, ok := displays[o.Status]; ok {
		return d
	}
	return string(o.Status)
}
