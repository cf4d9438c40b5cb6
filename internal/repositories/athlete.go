package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// AthleteRepository handles athlete data operations
type AthleteRepository struct {
	db *database.DB
}

// NewAthleteRepository creates a new athlete repository
func NewAthleteRepository(db *database.DB) *AthleteRepository {
	return &AthleteRepository{db: db}
}

// AthleteDetails is an athlete together with its category and event context
type AthleteDetails struct {
	models.Athlete
	CategoryName string `json:"category_name"`
	EventID      int    `json:"event_id"`
	EventName    string `json:"event_name"`
}

// Create creates a new athlete
func (r *AthleteRepository) Create(req *models.AthleteCreateRequest) (*models.Athlete, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO athletes (name, birth_date, gender, club_name, category_id, is_pair, partner_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int
	err := r.db.QueryRow(query, req.Name, req.BirthDate, string(req.Gender), req.ClubName,
		req.CategoryID, req.IsPair, req.PartnerName).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}

	return &models.Athlete{
		ID:          id,
		Name:        req.Name,
		BirthDate:   req.BirthDate,
		Gender:      req.Gender,
		ClubName:    req.ClubName,
		CategoryID:  req.CategoryID,
		IsPair:      req.IsPair,
		PartnerName: req.PartnerName,
	}, nil
}

// GetByID retrieves an athlete by ID
func (r *AthleteRepository) GetByID(id int) (*models.Athlete, error) {
	query := r.db.Rebind(`
		SELECT id, name, birth_date, gender, club_name, category_id, is_pair, partner_name
		FROM athletes
		WHERE id = ?`)

	athlete, err := scanAthlete(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}
	return athlete, nil
}

// ListByCategory retrieves a category's athletes ordered by name
func (r *AthleteRepository) ListByCategory(categoryID int) ([]*models.Athlete, error) {
	query := r.db.Rebind(`
		SELECT id, name, birth_date, gender, club_name, category_id, is_pair, partner_name
		FROM athletes
		WHERE category_id = ?
		ORDER BY name`)

	rows, err := r.db.Query(query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	defer rows.Close()

	var athletes []*models.Athlete
	for rows.Next() {
		athlete, err := scanAthlete(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan athlete: %w", err)
		}
		athletes = append(athletes, athlete)
	}
	return athletes, rows.Err()
}

// GetDetails retrieves an athlete with its category and event names
func (r *AthleteRepository) GetDetails(id int) (*AthleteDetails, error) {
	query := r.db.Rebind(`
		SELECT a.id, a.name, a.birth_date, a.gender, a.club_name, a.category_id, a.is_pair, a.partner_name,
		       c.name, e.id, e.name
		FROM athletes a
		JOIN categories c ON c.id = a.category_id
		JOIN events e ON e.id = c.event_id
		WHERE a.id = ?`)

	details := &AthleteDetails{}
	var birthDate sql.NullTime
	var gender, clubName, partnerName sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&details.ID,
		&details.Name,
		&birthDate,
		&gender,
		&clubName,
		&details.CategoryID,
		&details.IsPair,
		&partnerName,
		&details.CategoryName,
		&details.EventID,
		&details.EventName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAthleteNotFound
		}
		return nil, fmt.Errorf("failed to get athlete details: %w", err)
	}

	if birthDate.Valid {
		details.BirthDate = &birthDate.Time
	}
	details.Gender = models.Gender(gender.String)
	details.ClubName = clubName.String
	details.PartnerName = partnerName.String
	return details, nil
}

func scanAthlete(row rowScanner) (*models.Athlete, error) {
	athlete := &models.Athlete{}
	var birthDate sql.NullTime
	var gender, clubName, partnerName sql.NullString

	err := row.Scan(&athlete.ID, &athlete.Name, &birthDate, &gender, &clubName,
		&athlete.CategoryID, &athlete.IsPair, &partnerName)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		athlete.BirthDate = &birthDate.Time
	}
	athlete.Gender = models.Gender(gender.String)
	athlete.ClubName = clubName.String
	athlete.PartnerName = partnerName.String
	return athlete, nil
}
