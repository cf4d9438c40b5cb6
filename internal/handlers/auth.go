package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mainstream-shop/internal/middleware"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/utils"
)

// UserStore is what the auth handler needs from the user repository
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	UpdateLastLogin(id int) error
}

// AuthHandler handles login and logout for the back office and customers
type AuthHandler struct {
	users UserStore
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid || !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session := middleware.GetSession(r.Context())
	if session == nil {
		respondError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Failed to stamp last login for user %d: %v", user.ID, err)
	}

	respondSuccess(w, http.StatusOK, "Logged in", map[string]any{
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      string(user.Role),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		delete(session.Values, "user_id")
		if err := session.Save(r, w); err != nil {
			respondError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}
	respondSuccess(w, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      string(user.Role),
	})
}
