package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"mainstream-shop/internal/models"
)

// MockOrderNotifier is a mock implementation of OrderNotifier for testing
type MockOrderNotifier struct {
	mock.Mock
}

func (m *MockOrderNotifier) NotifyNewOrder(humanOrderNumber, athleteName string, totalAmount int) error {
	args := m.Called(humanOrderNumber, athleteName, totalAmount)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id int) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByEmailAndNumber(email, humanOrderNumber string) (*models.Order, error) {
	args := m.Called(email, humanOrderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(status models.OrderStatus) ([]*models.Order, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListExpiredAwaitingPayment(now time.Time) ([]*models.Order, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id int, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Cancel(id int, status models.OrderStatus, reason string) error {
	args := m.Called(id, status, reason)
	return args.Error(0)
}

func (m *MockOrderRepository) SetPaymentDeadline(id int, deadline time.Time) error {
	args := m.Called(id, deadline)
	return args.Error(0)
}
