package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"mainstream-shop/internal/models"
)

// SessionName is the cookie name of the shop session
const SessionName = "mainstream-session"

type contextKey string

const (
	sessionContextKey contextKey = "session"
	userContextKey    contextKey = "user"
)

// UserLoader loads users for the auth middleware
type UserLoader interface {
	GetByID(id int) (*models.User, error)
}

// SessionMiddleware loads the shop session once per request and puts it on
// the context, so handlers and the cart share the same session instance.
func SessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				// A stale or tampered cookie yields a fresh session
				log.Printf("Session decode failed, starting fresh: %v", err)
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the request's session, or nil outside SessionMiddleware
func GetSession(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(sessionContextKey).(*sessions.Session)
	return session
}

// AuthMiddleware resolves the logged-in user from the session, if any. It
// never rejects; RequireStaff does.
func AuthMiddleware(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := session.Values["user_id"].(int)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(userID)
			if err != nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the logged-in user, or nil
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// RequireStaff rejects requests from users without a back-office role
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.IsStaff() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Staff access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
