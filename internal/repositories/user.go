package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, full_name, phone, telegram_id, role, is_active, created_at, last_login"

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO users (email, password_hash, full_name, phone, telegram_id, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	user.CreatedAt = time.Now()
	err := r.db.QueryRow(query,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.FullName,
		nullIfEmpty(user.Phone),
		nullIfEmpty(user.TelegramID),
		string(user.Role),
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return models.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.Email = strings.ToLower(user.Email)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE id = ?")

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE email = ?")

	user, err := scanUser(r.db.QueryRow(query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(id int) error {
	query := r.db.Rebind("UPDATE users SET last_login = ? WHERE id = ?")

	if _, err := r.db.Exec(query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var passwordHash, phone, telegramID sql.NullString
	var role string
	var lastLogin sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &passwordHash, &user.FullName, &phone,
		&telegramID, &role, &user.IsActive, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash.String
	user.Phone = phone.String
	user.TelegramID = telegramID.String
	user.Role = models.UserRole(role)
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return user, nil
}
