package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"mainstream-shop/internal/cart"
)

// SnapshotProvider builds the cart snapshot backend for one request
type SnapshotProvider func(session *sessions.Session, r *http.Request, w http.ResponseWriter) cart.SnapshotStore

// SessionSnapshots keeps cart snapshots in the visitor's cookie session,
// the default backend.
func SessionSnapshots() SnapshotProvider {
	return func(session *sessions.Session, r *http.Request, w http.ResponseWriter) cart.SnapshotStore {
		return cart.NewSessionSnapshot(session, r, w)
	}
}

// RedisSnapshots keeps cart snapshots in Redis, keyed by a per-visitor cart
// ID stored in the session. The cookie then carries only the ID, and the
// cart survives cookie size limits and can be shared with other backends.
func RedisSnapshots(client *redis.Client, ttl time.Duration) SnapshotProvider {
	return func(session *sessions.Session, r *http.Request, w http.ResponseWriter) cart.SnapshotStore {
		cartID, ok := session.Values["cart_id"].(string)
		if !ok || cartID == "" {
			cartID = uuid.NewString()
			session.Values["cart_id"] = cartID
			if err := session.Save(r, w); err != nil {
				log.Printf("Failed to persist cart ID: %v", err)
			}
		}
		return cart.NewRedisSnapshot(client, cartID, ttl)
	}
}
