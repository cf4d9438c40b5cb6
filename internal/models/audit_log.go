package models

import "time"

// AuditLog records a user or system action for the back office
type AuditLog struct {
	ID           int       `json:"id" db:"id"`
	UserID       *int      `json:"user_id" db:"user_id"`
	Action       string    `json:"action" db:"action"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	Details      string    `json:"details" db:"details"` // JSON column
	IPAddress    string    `json:"ip_address" db:"ip_address"`
	UserAgent    string    `json:"user_agent" db:"user_agent"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Audit actions recorded by the shop
const (
	ActionOrderCreate        = "ORDER_CREATE"
	ActionOrderStatusChange  = "ORDER_STATUS_CHANGE"
	ActionOrderAutoCancelled = "ORDER_AUTO_CANCELLED_TIMEOUT"
	ActionUserCreate         = "USER_CREATE"
)
