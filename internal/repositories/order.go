package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, human_order_number, customer_id, event_id, category_id,
	athlete_id, video_type_ids, total_amount, status, contact_email, contact_phone,
	contact_first_name, contact_last_name, comment, payment_expires_at,
	cancellation_reason, created_at, updated_at`

// Create inserts a new order. SQLite rejects concurrent writers with a
// locked-database error, so the insert retries briefly with backoff.
func (r *OrderRepository) Create(order *models.Order) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	videoTypeIDs, err := json.Marshal(order.VideoTypeIDs)
	if err != nil {
		return fmt.Errorf("failed to encode video types: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO orders (order_number, human_order_number, customer_id, event_id,
			category_id, athlete_id, video_type_ids, total_amount, status,
			contact_email, contact_phone, contact_first_name, contact_last_name,
			comment, payment_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	const maxRetries = 5
	retryDelay := 100 * time.Millisecond

	for attempt := 0; ; attempt++ {
		err = r.db.QueryRow(query,
			order.OrderNumber,
			order.HumanOrderNumber,
			order.CustomerID,
			order.EventID,
			order.CategoryID,
			order.AthleteID,
			string(videoTypeIDs),
			order.TotalAmount,
			string(order.Status),
			order.ContactEmail,
			order.ContactPhone,
			order.ContactFirstName,
			order.ContactLastName,
			order.Comment,
			order.PaymentExpiresAt,
			order.CreatedAt,
			order.UpdatedAt,
		).Scan(&order.ID)

		if err == nil {
			return nil
		}
		if !strings.Contains(strings.ToLower(err.Error()), "database is locked") || attempt >= maxRetries-1 {
			return fmt.Errorf("failed to create order: %w", err)
		}

		wait := retryDelay*time.Duration(1<<attempt) + time.Duration(rand.Int63n(int64(100*time.Millisecond)))
		time.Sleep(wait)
	}
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	query := r.db.Rebind("SELECT " + orderColumns + " FROM orders WHERE id = ?")

	order, err := scanOrder(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetByEmailAndNumber retrieves an order by contact email and the
// customer-facing order number, for order tracking
func (r *OrderRepository) GetByEmailAndNumber(email, humanOrderNumber string) (*models.Order, error) {
	query := r.db.Rebind("SELECT " + orderColumns + " FROM orders WHERE contact_email = ? AND human_order_number = ?")

	order, err := scanOrder(r.db.QueryRow(query, email, humanOrderNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListByStatus retrieves orders in the given status, oldest first
func (r *OrderRepository) ListByStatus(status models.OrderStatus) ([]*models.Order, error) {
	query := r.db.Rebind("SELECT " + orderColumns + " FROM orders WHERE status = ? ORDER BY created_at")

	rows, err := r.db.Query(query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListExpiredAwaitingPayment retrieves awaiting_payment orders whose
// payment deadline has passed
func (r *OrderRepository) ListExpiredAwaitingPayment(now time.Time) ([]*models.Order, error) {
	query := r.db.Rebind("SELECT " + orderColumns + ` FROM orders
		WHERE status = ? AND payment_expires_at IS NOT NULL AND payment_expires_at < ?`)

	rows, err := r.db.Query(query, string(models.OrderAwaitingPayment), now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// UpdateStatus moves an order to a new status
func (r *OrderRepository) UpdateStatus(id int, status models.OrderStatus) error {
	query := r.db.Rebind("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?")

	result, err := r.db.Exec(query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// Cancel moves an order to a cancelled status with a reason
func (r *OrderRepository) Cancel(id int, status models.OrderStatus, reason string) error {
	query := r.db.Rebind("UPDATE orders SET status = ?, cancellation_reason = ?, updated_at = ? WHERE id = ?")

	result, err := r.db.Exec(query, string(status), reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// SetPaymentDeadline puts an order into awaiting_payment with a deadline
func (r *OrderRepository) SetPaymentDeadline(id int, deadline time.Time) error {
	query := r.db.Rebind("UPDATE orders SET status = ?, payment_expires_at = ?, updated_at = ? WHERE id = ?")

	result, err := r.db.Exec(query, string(models.OrderAwaitingPayment), deadline, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set payment deadline: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func collectOrders(rows *sql.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var customerID sql.NullInt64
	var videoTypeIDs string
	var status string
	var phone, firstName, lastName, comment, cancellationReason sql.NullString
	var paymentExpiresAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.HumanOrderNumber,
		&customerID,
		&order.EventID,
		&order.CategoryID,
		&order.AthleteID,
		&videoTypeIDs,
		&order.TotalAmount,
		&status,
		&order.ContactEmail,
		&phone,
		&firstName,
		&lastName,
		&comment,
		&paymentExpiresAt,
		&cancellationReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		id := int(customerID.Int64)
		order.CustomerID = &id
	}
	if err := json.Unmarshal([]byte(videoTypeIDs), &order.VideoTypeIDs); err != nil {
		return nil, fmt.Errorf("failed to decode video types: %w", err)
	}
	order.Status = models.OrderStatus(status)
	order.ContactPhone = phone.String
	order.ContactFirstName = firstName.String
	order.ContactLastName = lastName.String
	order.Comment = comment.String
	order.CancellationReason = cancellationReason.String
	if paymentExpiresAt.Valid {
		order.PaymentExpiresAt = &paymentExpiresAt.Time
	}
	return order, nil
}
