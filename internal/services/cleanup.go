package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"mainstream-shop/internal/models"
)

// CleanupService cancels orders whose payment window has expired. It runs a
// periodic sweep so an abandoned checkout does not hold an order in
// awaiting_payment forever.
type CleanupService struct {
	orderRepo OrderRepository
	audit     *AuditService
	interval  time.Duration
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(orderRepo OrderRepository, audit *AuditService, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CleanupService{
		orderRepo: orderRepo,
		audit:     audit,
		interval:  interval,
	}
}

// Run sweeps on the configured interval until the context is cancelled
func (s *CleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.CancelExpired(time.Now()); err != nil {
				log.Printf("Order cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("Order cleanup cancelled %d expired orders", n)
			}
		}
	}
}

// CancelExpired cancels every awaiting_payment order whose deadline passed,
// returning how many were cancelled.
func (s *CleanupService) CancelExpired(now time.Time) (int, error) {
	expired, err := s.orderRepo.ListExpiredAwaitingPayment(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired orders: %w", err)
	}

	cancelled := 0
	for _, order := range expired {
		if err := s.orderRepo.Cancel(order.ID, models.OrderCancelledUnpaid, "payment window expired"); err != nil {
			log.Printf("Failed to cancel expired order %s: %v", order.HumanOrderNumber, err)
			continue
		}
		cancelled++

		if err := s.audit.LogAction(nil, models.ActionOrderAutoCancelled, "order",
			fmt.Sprintf("%d", order.ID), map[string]any{"human_order_number": order.HumanOrderNumber}, nil); err != nil {
			log.Printf("Failed to audit auto-cancel for order %d: %v", order.ID, err)
		}
	}
	return cancelled, nil
}
