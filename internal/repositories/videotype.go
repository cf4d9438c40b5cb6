package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// VideoTypeRepository handles video type data operations
type VideoTypeRepository struct {
	db *database.DB
}

// NewVideoTypeRepository creates a new video type repository
func NewVideoTypeRepository(db *database.DB) *VideoTypeRepository {
	return &VideoTypeRepository{db: db}
}

// Create creates a new video type
func (r *VideoTypeRepository) Create(req *models.VideoTypeCreateRequest) (*models.VideoType, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO video_types (name, description, price, is_active)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	var id int
	if err := r.db.QueryRow(query, req.Name, req.Description, req.Price, true).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create video type: %w", err)
	}

	return &models.VideoType{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
	}, nil
}

// GetByID retrieves a video type by ID
func (r *VideoTypeRepository) GetByID(id int) (*models.VideoType, error) {
	query := r.db.Rebind(`
		SELECT id, name, description, price, is_active
		FROM video_types
		WHERE id = ?`)

	videoType := &models.VideoType{}
	var description sql.NullString
	err := r.db.QueryRow(query, id).Scan(&videoType.ID, &videoType.Name, &description,
		&videoType.Price, &videoType.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrVideoTypeNotFound
		}
		return nil, fmt.Errorf("failed to get video type: %w", err)
	}
	videoType.Description = description.String
	return videoType, nil
}

// ListActive retrieves all active video types
func (r *VideoTypeRepository) ListActive() ([]*models.VideoType, error) {
	query := r.db.Rebind(`
		SELECT id, name, description, price, is_active
		FROM video_types
		WHERE is_active = ?
		ORDER BY id`)

	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list video types: %w", err)
	}
	defer rows.Close()

	var videoTypes []*models.VideoType
	for rows.Next() {
		videoType := &models.VideoType{}
		var description sql.NullString
		if err := rows.Scan(&videoType.ID, &videoType.Name, &description,
			&videoType.Price, &videoType.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan video type: %w", err)
		}
		videoType.Description = description.String
		videoTypes = append(videoTypes, videoType)
	}
	return videoTypes, rows.Err()
}
