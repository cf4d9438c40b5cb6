package services

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"mainstream-shop/internal/models"
)

// AuditLogRepository interface for audit log data operations
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListRecent(limit int) ([]*models.AuditLog, error)
}

// AuditService handles audit logging operations
type AuditService struct {
	auditRepo AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// LogAction records an action, serializing details to JSON. The request is
// optional; when present the client IP and user agent are recorded.
func (s *AuditService) LogAction(userID *int, action, resourceType, resourceID string, details any, r *http.Request) error {
	var detailsJSON string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = string(b)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      detailsJSON,
	}
	if r != nil {
		entry.IPAddress = getClientIP(r)
		entry.UserAgent = r.UserAgent()
	}

	return s.auditRepo.Create(entry)
}

// ListRecent returns the most recent audit entries for the back office
func (s *AuditService) ListRecent(limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepo.ListRecent(limit)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.Index(forwarded, ","); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
