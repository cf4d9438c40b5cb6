package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// EventRepository handles event and category data operations
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO events (name, place, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := time.Now()
	var id int
	if err := r.db.QueryRow(query, req.Name, req.Place, req.StartDate, req.EndDate, true, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &models.Event{
		ID:        id,
		Name:      req.Name,
		Place:     req.Place,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := r.db.Rebind(`
		SELECT id, name, place, start_date, end_date, is_active, created_at
		FROM events
		WHERE id = ?`)

	event, err := scanEvent(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListActive retrieves active events, newest start date first
func (r *EventRepository) ListActive(limit, offset int) ([]*models.Event, error) {
	query := r.db.Rebind(`
		SELECT id, name, place, start_date, end_date, is_active, created_at
		FROM events
		WHERE is_active = ?
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?`)

	rows, err := r.db.Query(query, true, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CountActive returns the number of active events
func (r *EventRepository) CountActive() (int, error) {
	query := r.db.Rebind("SELECT COUNT(*) FROM events WHERE is_active = ?")

	var count int
	if err := r.db.QueryRow(query, true).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CreateCategory creates a new category for an event
func (r *EventRepository) CreateCategory(req *models.CategoryCreateRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO categories (name, gender, event_id)
		VALUES (?, ?, ?)
		RETURNING id`)

	var id int
	if err := r.db.QueryRow(query, req.Name, string(req.Gender), req.EventID).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &models.Category{
		ID:      id,
		Name:    req.Name,
		Gender:  req.Gender,
		EventID: req.EventID,
	}, nil
}

// GetCategoryByID retrieves a category by ID
func (r *EventRepository) GetCategoryByID(id int) (*models.Category, error) {
	query := r.db.Rebind(`
		SELECT id, name, gender, event_id
		FROM categories
		WHERE id = ?`)

	category := &models.Category{}
	var gender sql.NullString
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &gender, &category.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	category.Gender = models.Gender(gender.String)
	return category, nil
}

// ListCategoriesByEvent retrieves an event's categories with athlete counts,
// ordered by name
func (r *EventRepository) ListCategoriesByEvent(eventID int) ([]*models.Category, error) {
	query := r.db.Rebind(`
		SELECT c.id, c.name, c.gender, c.event_id,
		       (SELECT COUNT(*) FROM athletes a WHERE a.category_id = c.id) AS athletes_count
		FROM categories c
		WHERE c.event_id = ?
		ORDER BY c.name`)

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		var gender sql.NullString
		if err := rows.Scan(&category.ID, &category.Name, &gender, &category.EventID, &category.AthletesCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		category.Gender = models.Gender(gender.String)
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var place sql.NullString
	var start, end sql.NullTime

	if err := row.Scan(&event.ID, &event.Name, &place, &start, &end, &event.IsActive, &event.CreatedAt); err != nil {
		return nil, err
	}

	event.Place = place.String
	if start.Valid {
		event.StartDate = &start.Time
	}
	if end.Valid {
		event.EndDate = &end.Time
	}
	return event, nil
}
