package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// AuditLogRepository handles audit log data operations
type AuditLogRepository struct {
	db *database.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create records an audit log entry
func (r *AuditLogRepository) Create(entry *models.AuditLog) error {
	query := r.db.Rebind(`
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	entry.CreatedAt = time.Now()
	err := r.db.QueryRow(query,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Details,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent audit log entries
func (r *AuditLogRepository) ListRecent(limit int) ([]*models.AuditLog, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var userID sql.NullInt64
		var resourceType, resourceID, details, ipAddress, userAgent sql.NullString
		if err := rows.Scan(&entry.ID, &userID, &entry.Action, &resourceType, &resourceID,
			&details, &ipAddress, &userAgent, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		if userID.Valid {
			id := int(userID.Int64)
			entry.UserID = &id
		}
		entry.ResourceType = resourceType.String
		entry.ResourceID = resourceID.String
		entry.Details = details.String
		entry.IPAddress = ipAddress.String
		entry.UserAgent = userAgent.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
