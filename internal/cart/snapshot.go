package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// MemorySnapshot keeps the snapshot in process memory. Used in tests and in
// short-lived flows that never outlive the process.
type MemorySnapshot struct {
	data    []byte
	present bool
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

// Seed preloads raw snapshot bytes, bypassing Write
func (m *MemorySnapshot) Seed(data []byte) {
	m.data = append([]byte(nil), data...)
	m.present = true
}

func (m *MemorySnapshot) Read(_ context.Context) ([]byte, bool, error) {
	return m.data, m.present, nil
}

func (m *MemorySnapshot) Write(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

// SessionSnapshot stores the snapshot as a string value in the visitor's
// cookie session. Each Write saves the session immediately so a mutation is
// a single atomic store-and-replace.
type SessionSnapshot struct {
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
}

func NewSessionSnapshot(session *sessions.Session, r *http.Request, w http.ResponseWriter) *SessionSnapshot {
	return &SessionSnapshot{session: session, r: r, w: w}
}

func (s *SessionSnapshot) Read(_ context.Context) ([]byte, bool, error) {
	raw, ok := s.session.Values[SnapshotKey]
	if !ok {
		return nil, false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil, false, nil
	}
	return []byte(str), true, nil
}

func (s *SessionSnapshot) Write(_ context.Context, data []byte) error {
	s.session.Values[SnapshotKey] = string(data)
	return s.session.Save(s.r, s.w)
}

// RedisSnapshot stores the snapshot in Redis under a per-visitor key, for
// deployments that want carts to survive cookie loss or be shared with
// other backends.
type RedisSnapshot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSnapshot(client *redis.Client, cartID string, ttl time.Duration) *RedisSnapshot {
	return &RedisSnapshot{client: client, key: "cart:" + cartID, ttl: ttl}
}

func (r *RedisSnapshot) Read(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisSnapshot) Write(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}
