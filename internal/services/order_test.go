package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/repositories"
)

type testEnv struct {
	db        *database.DB
	orders    *repositories.OrderRepository
	users     *repositories.UserRepository
	athletes  *repositories.AthleteRepository
	events    *repositories.EventRepository
	types     *repositories.VideoTypeRepository
	audit     *AuditService
	notifier  *MockOrderNotifier
	service   *OrderService
	athleteID int
	typeIDs   []int
}

func setupOrderTest(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewConnection(database.Config{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	env := &testEnv{
		db:       db,
		orders:   repositories.NewOrderRepository(db),
		users:    repositories.NewUserRepository(db),
		athletes: repositories.NewAthleteRepository(db),
		events:   repositories.NewEventRepository(db),
		types:    repositories.NewVideoTypeRepository(db),
		notifier: &MockOrderNotifier{},
	}
	env.audit = NewAuditService(repositories.NewAuditLogRepository(db))
	env.service = NewOrderService(env.orders, env.users, env.athletes, env.types, env.audit, env.notifier)

	event, err := env.events.Create(&models.EventCreateRequest{Name: "Spring Cup"})
	require.NoError(t, err)
	category, err := env.events.CreateCategory(&models.CategoryCreateRequest{
		Name: "Juniors", Gender: models.GenderFemale, EventID: event.ID,
	})
	require.NoError(t, err)
	athlete, err := env.athletes.Create(&models.AthleteCreateRequest{
		Name: "Anna Petrova", CategoryID: category.ID,
	})
	require.NoError(t, err)
	env.athleteID = athlete.ID

	catalog := NewCatalogService(env.events, env.athletes, env.types)
	require.NoError(t, catalog.EnsureDefaultVideoTypes())
	videoTypes, err := env.types.ListActive()
	require.NoError(t, err)
	for _, vt := range videoTypes {
		env.typeIDs = append(env.typeIDs, vt.ID)
	}

	return env
}

func (env *testEnv) cartItem(videoTypeID int) models.CartItem {
	return models.CartItem{
		AthleteID:   env.athleteID,
		AthleteName: "Anna Petrova",
		VideoTypeID: videoTypeID,
		Quantity:    1,
	}
}

func TestOrderService_CreateFromCart(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, "Anna Petrova", 999+2499).Return(nil)

	orders, err := env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0]), env.cartItem(env.typeIDs[3])},
		&CheckoutRequest{
			Email:     "mom@example.com",
			Phone:     "8 (916) 123-45-67",
			FirstName: "Maria",
			LastName:  "Petrova",
		},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, models.OrderCheckoutInitiated, order.Status)
	assert.Equal(t, 999+2499, order.TotalAmount)
	assert.Equal(t, []int{env.typeIDs[0], env.typeIDs[3]}, order.VideoTypeIDs)
	assert.Equal(t, "+79161234567", order.ContactPhone)
	assert.Regexp(t, `^MS\d{14}$`, order.OrderNumber)
	assert.Regexp(t, `^MS-\d{8}-[0-9A-F]{4}$`, order.HumanOrderNumber)
	env.notifier.AssertExpectations(t)

	// First order creates a customer account
	customer, err := env.users.GetByEmail("mom@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, customer.Role)
	assert.Equal(t, "Maria Petrova", customer.FullName)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, customer.ID, *order.CustomerID)
}

func TestOrderService_CreateFromCart_EmptyCart(t *testing.T) {
	env := setupOrderTest(t)

	_, err := env.service.CreateFromCart(nil, &CheckoutRequest{Email: "mom@example.com"}, nil)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestOrderService_CreateFromCart_InvalidContact(t *testing.T) {
	env := setupOrderTest(t)

	_, err := env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0])},
		&CheckoutRequest{Email: "not-an-email"},
		nil,
	)
	assert.Error(t, err)

	_, err = env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0])},
		&CheckoutRequest{Email: "mom@example.com", Phone: "12345"},
		nil,
	)
	assert.Error(t, err)
}

func TestOrderService_CreateFromCart_ReusesExistingCustomer(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := &CheckoutRequest{Email: "mom@example.com", FirstName: "Maria"}
	first, err := env.service.CreateFromCart([]models.CartItem{env.cartItem(env.typeIDs[0])}, req, nil)
	require.NoError(t, err)
	second, err := env.service.CreateFromCart([]models.CartItem{env.cartItem(env.typeIDs[1])}, req, nil)
	require.NoError(t, err)

	require.NotNil(t, first[0].CustomerID)
	require.NotNil(t, second[0].CustomerID)
	assert.Equal(t, *first[0].CustomerID, *second[0].CustomerID)
}

func TestOrderService_PaymentWindow(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	orders, err := env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0])},
		&CheckoutRequest{Email: "mom@example.com"},
		nil,
	)
	require.NoError(t, err)

	order, err := env.service.InitiatePayment(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderAwaitingPayment, order.Status)
	require.NotNil(t, order.PaymentExpiresAt)
	assert.WithinDuration(t, time.Now().Add(models.PaymentTTL), *order.PaymentExpiresAt, 5*time.Second)

	// Already awaiting payment, cannot start again
	_, err = env.service.InitiatePayment(orders[0].ID)
	assert.Error(t, err)

	require.NoError(t, env.service.MarkPaid(orders[0].ID, nil, nil))
	got, err := env.service.Get(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, got.Status)
}

func TestOrderService_Track(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	orders, err := env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0])},
		&CheckoutRequest{Email: "mom@example.com"},
		nil,
	)
	require.NoError(t, err)

	got, err := env.service.Track("mom@example.com", orders[0].HumanOrderNumber)
	require.NoError(t, err)
	assert.Equal(t, orders[0].ID, got.ID)

	_, err = env.service.Track("stranger@example.com", orders[0].HumanOrderNumber)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	_, err = env.service.Track("not-an-email", orders[0].HumanOrderNumber)
	assert.Error(t, err)
}

func TestOrderService_CancelManually(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	orders, err := env.service.CreateFromCart(
		[]models.CartItem{env.cartItem(env.typeIDs[0])},
		&CheckoutRequest{Email: "mom@example.com"},
		nil,
	)
	require.NoError(t, err)

	require.NoError(t, env.service.CancelManually(orders[0].ID, "customer request", nil, nil))

	got, err := env.service.Get(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelledManual, got.Status)
	assert.Equal(t, "customer request", got.CancellationReason)

	// Cancelled orders cannot change status
	assert.Error(t, env.service.UpdateStatus(orders[0].ID, models.OrderPaid, nil, nil))
}

func TestOrderService_CreateFromCart_SplitsPerAthlete(t *testing.T) {
	env := setupOrderTest(t)
	env.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	category, err := env.events.ListCategoriesByEvent(1)
	require.NoError(t, err)
	second, err := env.athletes.Create(&models.AthleteCreateRequest{
		Name: "Boris Ivanov", CategoryID: category[0].ID,
	})
	require.NoError(t, err)

	items := []models.CartItem{
		env.cartItem(env.typeIDs[0]),
		{AthleteID: second.ID, VideoTypeID: env.typeIDs[1], Quantity: 1},
		env.cartItem(env.typeIDs[2]),
	}
	orders, err := env.service.CreateFromCart(items, &CheckoutRequest{Email: "mom@example.com"}, nil)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, env.athleteID, orders[0].AthleteID)
	assert.Len(t, orders[0].VideoTypeIDs, 2)
	assert.Equal(t, second.ID, orders[1].AthleteID)
	assert.Len(t, orders[1].VideoTypeIDs, 1)
}
