package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla/sessions"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/repositories"
	"mainstream-shop/internal/services"
	"mainstream-shop/internal/utils"
)

type apiTest struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client

	db       *database.DB
	users    *repositories.UserRepository
	orders   *repositories.OrderRepository
	athletes *repositories.AthleteRepository

	eventID    int
	categoryID int
	athleteID  int
	typeIDs    []int
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	return newAPITestWith(t, SessionSnapshots())
}

// newAPITestWith builds the full API stack over an in-memory database, with
// the given cart snapshot backend.
func newAPITestWith(t *testing.T, snapshots SnapshotProvider) *apiTest {
	t.Helper()

	db, err := database.NewConnection(database.Config{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	events := repositories.NewEventRepository(db)
	athletes := repositories.NewAthleteRepository(db)
	videoTypes := repositories.NewVideoTypeRepository(db)
	orders := repositories.NewOrderRepository(db)
	users := repositories.NewUserRepository(db)
	auditLogs := repositories.NewAuditLogRepository(db)

	catalogService := services.NewCatalogService(events, athletes, videoTypes)
	require.NoError(t, catalogService.EnsureDefaultVideoTypes())

	auditService := services.NewAuditService(auditLogs)
	telegram := services.NewTelegramService(services.TelegramConfig{})
	orderService := services.NewOrderService(orders, users, athletes, videoTypes, auditService, telegram)

	sessionStore := sessions.NewCookieStore([]byte("test-secret"))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}

	router := NewRouter(RouterConfig{
		SessionStore: sessionStore,
		UserLoader:   users,
		Auth:         NewAuthHandler(users),
		Shop:         NewShopHandler(catalogService),
		Cart:         NewCartHandler(catalogService, NewVideoTypeFetcher(catalogService), snapshots),
		Checkout:     NewCheckoutHandler(orderService, snapshots),
		Admin:        NewAdminHandler(orderService, auditService),
		Health:       NewHealthHandler(db),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	at := &apiTest{
		t:        t,
		server:   server,
		client:   &http.Client{Jar: jar},
		db:       db,
		users:    users,
		orders:   orders,
		athletes: athletes,
	}

	event, err := events.Create(&models.EventCreateRequest{Name: "Spring Cup", Place: "Kazan"})
	require.NoError(t, err)
	at.eventID = event.ID

	category, err := events.CreateCategory(&models.CategoryCreateRequest{
		Name: "Juniors", Gender: models.GenderFemale, EventID: event.ID,
	})
	require.NoError(t, err)
	at.categoryID = category.ID

	athlete, err := athletes.Create(&models.AthleteCreateRequest{
		Name: "Anna Petrova", CategoryID: category.ID,
	})
	require.NoError(t, err)
	at.athleteID = athlete.ID

	listed, err := videoTypes.ListActive()
	require.NoError(t, err)
	for _, vt := range listed {
		at.typeIDs = append(at.typeIDs, vt.ID)
	}

	return at
}

func (at *apiTest) get(path string) (*http.Response, map[string]any) {
	at.t.Helper()
	resp, err := at.client.Get(at.server.URL + path)
	require.NoError(at.t, err)
	return resp, decodeBody(at.t, resp)
}

func (at *apiTest) post(path string, payload any) (*http.Response, map[string]any) {
	at.t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(at.t, err)
	resp, err := at.client.Post(at.server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(at.t, err)
	return resp, decodeBody(at.t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAPI_Health(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sqlite3", body["database"])
}

func TestAPI_BrowseCatalog(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.get("/api/events")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, _ = at.get(fmt.Sprintf("/api/events/%d/categories", at.eventID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = at.get(fmt.Sprintf("/api/categories/%d/athletes", at.categoryID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = at.get("/api/events/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Event not found", body["error"])
}

func TestAPI_VideoTypes(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.get("/api/video-types")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	types := body["data"].([]any)
	require.Len(t, types, 4)
	first := types[0].(map[string]any)
	assert.Equal(t, "TV version", first["name"])
	assert.Equal(t, float64(999), first["price"])
}

func TestAPI_CartFlow(t *testing.T) {
	at := newAPITest(t)

	// Empty cart
	resp, body := at.get("/api/cart")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["count"])

	// Add the TV version and the full package
	resp, body = at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[0],
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Added to cart", body["message"])

	resp, body = at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[3],
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, float64(999+2499), data["total"])

	// The cart survives across requests via the session cookie
	_, body = at.get("/api/cart")
	data = body["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 2)
	line := items[0].(map[string]any)
	assert.Equal(t, "Anna Petrova", line["athlete_name"])
	assert.Equal(t, "Spring Cup", line["event_name"])

	// Mutations queue notifications, drained once
	_, body = at.get("/api/notifications")
	notifications := body["data"].([]any)
	assert.Len(t, notifications, 2)
	_, body = at.get("/api/notifications")
	assert.Empty(t, body["data"])

	// Remove one line
	resp, body = at.post("/api/cart/remove", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[0],
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	// Clear
	resp, body = at.post("/api/cart/clear", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["count"])
}

func TestAPI_CartFlow_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	at := newAPITestWith(t, RedisSnapshots(redisClient, time.Hour))

	resp, body := at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[0],
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	// The snapshot lives in Redis, keyed by the visitor's cart ID
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Regexp(t, `^cart:`, keys[0])

	// The cookie carries only the cart ID, so the cart still survives
	// across requests
	_, body = at.get("/api/cart")
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(999), data["total"])

	// Checkout reads the same backend and clears it
	resp, _ = at.post("/api/orders", map[string]string{"email": "mom@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_, body = at.get("/api/cart")
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["count"])

	// A corrupt stored snapshot degrades to an empty cart
	require.NoError(t, mr.Set(keys[0], "{not json"))
	resp, body = at.get("/api/cart")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["count"])
}

func TestAPI_CartAdd_UnknownAthlete(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.post("/api/cart/add", map[string]int{
		"athlete_id": 999, "video_type_id": at.typeIDs[0],
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Athlete not found", body["error"])
}

func TestAPI_CartAdd_UnknownVideoType(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": 999,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unknown video type", body["error"])
}

func TestAPI_CheckoutFlow(t *testing.T) {
	at := newAPITest(t)

	_, _ = at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[1],
	})

	resp, body := at.post("/api/orders", map[string]string{
		"email":      "mom@example.com",
		"phone":      "89161234567",
		"first_name": "Maria",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Order created", body["message"])

	data := body["data"].(map[string]any)
	numbers := data["order_numbers"].([]any)
	require.Len(t, numbers, 1)
	orderNumber := numbers[0].(string)
	assert.Regexp(t, `^MS-\d{8}-[0-9A-F]{4}$`, orderNumber)

	// Checkout cleared the cart
	_, body = at.get("/api/cart")
	cart := body["data"].(map[string]any)
	assert.Equal(t, float64(0), cart["count"])

	// Tracking finds the order for the right email only
	resp, body = at.post("/api/orders/track", map[string]string{
		"email": "mom@example.com", "order_number": orderNumber,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	tracked := body["data"].(map[string]any)
	assert.Equal(t, "checkout_initiated", tracked["status"])
	assert.Equal(t, float64(1499), tracked["total_amount"])

	resp, _ = at.post("/api/orders/track", map[string]string{
		"email": "stranger@example.com", "order_number": orderNumber,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Checkout_EmptyCart(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.post("/api/orders", map[string]string{"email": "mom@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cart is empty", body["error"])
}

func TestAPI_PaymentWindow(t *testing.T) {
	at := newAPITest(t)

	_, _ = at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[0],
	})
	_, body := at.post("/api/orders", map[string]string{"email": "mom@example.com"})
	data := body["data"].(map[string]any)
	orders := data["orders"].([]any)
	orderID := int(orders[0].(map[string]any)["id"].(float64))

	resp, body := at.post(fmt.Sprintf("/api/orders/%d/payment", orderID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["data"].(map[string]any)
	assert.Equal(t, "awaiting_payment", order["status"])
	assert.NotNil(t, order["payment_expires_at"])

	// A second initiation is rejected
	resp, _ = at.post(fmt.Sprintf("/api/orders/%d/payment", orderID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_AdminRequiresStaff(t *testing.T) {
	at := newAPITest(t)

	resp, _ := at.get("/api/admin/orders")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_AdminFlow(t *testing.T) {
	at := newAPITest(t)

	hash, err := utils.HashPassword("operator-pass-1")
	require.NoError(t, err)
	require.NoError(t, at.users.Create(&models.User{
		Email:        "op@example.com",
		PasswordHash: hash,
		FullName:     "Operator",
		Role:         models.RoleOperator,
		IsActive:     true,
	}))

	// Wrong password is rejected
	resp, _ := at.post("/api/auth/login", map[string]string{
		"email": "op@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := at.post("/api/auth/login", map[string]string{
		"email": "op@example.com", "password": "operator-pass-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged in", body["message"])

	_, body = at.get("/api/auth/me")
	me := body["data"].(map[string]any)
	assert.Equal(t, "OPERATOR", me["role"])

	// Place an order as the same client, then walk it through the workflow
	_, _ = at.post("/api/cart/add", map[string]int{
		"athlete_id": at.athleteID, "video_type_id": at.typeIDs[0],
	})
	_, body = at.post("/api/orders", map[string]string{"email": "mom@example.com"})
	data := body["data"].(map[string]any)
	orders := data["orders"].([]any)
	orderID := int(orders[0].(map[string]any)["id"].(float64))

	_, _ = at.post(fmt.Sprintf("/api/orders/%d/payment", orderID), nil)

	resp, _ = at.post(fmt.Sprintf("/api/admin/orders/%d/status", orderID), map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = at.get("/api/admin/orders?status=paid")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	listed := body["data"].([]any)
	require.Len(t, listed, 1)

	resp, _ = at.post(fmt.Sprintf("/api/admin/orders/%d/status", orderID), map[string]string{
		"status": "cancelled_manual", "reason": "refund requested",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Audit trail recorded order creation and the status changes
	_, body = at.get("/api/admin/audit-logs")
	entries := body["data"].([]any)
	assert.GreaterOrEqual(t, len(entries), 3)

	// Logout drops staff access
	_, _ = at.post("/api/auth/logout", nil)
	resp, _ = at.get("/api/admin/orders")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_UnknownRoute(t *testing.T) {
	at := newAPITest(t)

	resp, body := at.get("/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])
}
