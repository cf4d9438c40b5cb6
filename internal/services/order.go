package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"mainstream-shop/internal/models"
	"mainstream-shop/internal/utils"
)

// OrderRepository interface for order data operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id int) (*models.Order, error)
	GetByEmailAndNumber(email, humanOrderNumber string) (*models.Order, error)
	ListByStatus(status models.OrderStatus) ([]*models.Order, error)
	ListExpiredAwaitingPayment(now time.Time) ([]*models.Order, error)
	UpdateStatus(id int, status models.OrderStatus) error
	Cancel(id int, status models.OrderStatus, reason string) error
	SetPaymentDeadline(id int, deadline time.Time) error
}

// UserRepository interface for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// OrderNotifier notifies the back office about order activity
type OrderNotifier interface {
	NotifyNewOrder(humanOrderNumber, athleteName string, totalAmount int) error
}

// CheckoutRequest represents the contact data submitted at checkout
type CheckoutRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Comment   string `json:"comment"`
}

// Validate validates the checkout contact data
func (req *CheckoutRequest) Validate() error {
	return models.ValidateContactEmail(req.Email)
}

// OrderService handles order business logic: building orders from cart
// contents, the payment window, tracking and cancellation.
type OrderService struct {
	orderRepo     OrderRepository
	userRepo      UserRepository
	athleteRepo   AthleteRepository
	videoTypeRepo VideoTypeRepository
	audit         *AuditService
	notifier      OrderNotifier
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo OrderRepository,
	userRepo UserRepository,
	athleteRepo AthleteRepository,
	videoTypeRepo VideoTypeRepository,
	audit *AuditService,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		athleteRepo:   athleteRepo,
		videoTypeRepo: videoTypeRepo,
		audit:         audit,
		notifier:      notifier,
	}
}

// CreateFromCart builds one order per athlete from the cart contents and the
// checkout contact data. Prices are re-read from the catalog rather than
// trusted from the cart snapshot.
func (s *OrderService) CreateFromCart(items []models.CartItem, req *CheckoutRequest, r *http.Request) ([]*models.Order, error) {
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	phone := ""
	if req.Phone != "" {
		normalized, err := utils.NormalizePhone(req.Phone)
		if err != nil {
			return nil, fmt.Errorf("invalid phone number: %w", err)
		}
		phone = normalized
	}

	customer, err := s.findOrCreateCustomer(req, phone)
	if err != nil {
		return nil, err
	}

	grouped := groupByAthlete(items)
	orders := make([]*models.Order, 0, len(grouped))

	for _, group := range grouped {
		details, err := s.athleteRepo.GetDetails(group.athleteID)
		if err != nil {
			return nil, err
		}

		var videoTypeIDs []int
		total := 0
		for _, item := range group.items {
			videoType, err := s.videoTypeRepo.GetByID(item.VideoTypeID)
			if err != nil {
				return nil, err
			}
			videoTypeIDs = append(videoTypeIDs, videoType.ID)
			total += videoType.Price * item.Quantity
		}

		order := &models.Order{
			OrderNumber:      models.GenerateOrderNumber(),
			HumanOrderNumber: models.GenerateHumanOrderNumber(),
			CustomerID:       &customer.ID,
			EventID:          details.EventID,
			CategoryID:       details.CategoryID,
			AthleteID:        details.ID,
			VideoTypeIDs:     videoTypeIDs,
			TotalAmount:      total,
			Status:           models.OrderCheckoutInitiated,
			ContactEmail:     customer.Email,
			ContactPhone:     phone,
			ContactFirstName: req.FirstName,
			ContactLastName:  req.LastName,
			Comment:          req.Comment,
		}
		if err := s.orderRepo.Create(order); err != nil {
			return nil, err
		}
		orders = append(orders, order)

		if err := s.audit.LogAction(&customer.ID, models.ActionOrderCreate, "order",
			fmt.Sprintf("%d", order.ID), map[string]any{"human_order_number": order.HumanOrderNumber}, r); err != nil {
			log.Printf("Failed to audit order %d: %v", order.ID, err)
		}
		if s.notifier != nil {
			if err := s.notifier.NotifyNewOrder(order.HumanOrderNumber, details.DisplayName(), total); err != nil {
				log.Printf("Failed to notify about order %s: %v", order.HumanOrderNumber, err)
			}
		}
	}

	return orders, nil
}

// InitiatePayment moves an order into awaiting_payment and starts the
// payment window.
func (s *OrderService) InitiatePayment(orderID int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderCheckoutInitiated && order.Status != models.OrderDraft {
		return nil, fmt.Errorf("order %s cannot start payment from status %s", order.HumanOrderNumber, order.Status)
	}

	deadline := time.Now().Add(models.PaymentTTL)
	if err := s.orderRepo.SetPaymentDeadline(order.ID, deadline); err != nil {
		return nil, err
	}
	order.Status = models.OrderAwaitingPayment
	order.PaymentExpiresAt = &deadline
	return order, nil
}

// MarkPaid moves an awaiting_payment order to paid
func (s *OrderService) MarkPaid(orderID int, actorID *int, r *http.Request) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderAwaitingPayment {
		return fmt.Errorf("order %s is not awaiting payment", order.HumanOrderNumber)
	}

	if err := s.orderRepo.UpdateStatus(order.ID, models.OrderPaid); err != nil {
		return err
	}
	return s.logStatusChange(actorID, order.ID, order.Status, models.OrderPaid, r)
}

// UpdateStatus moves an order to a new status, recording the change
func (s *OrderService) UpdateStatus(orderID int, status models.OrderStatus, actorID *int, r *http.Request) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.IsCancelled() {
		return errors.New("cancelled orders cannot change status")
	}

	if err := s.orderRepo.UpdateStatus(order.ID, status); err != nil {
		return err
	}
	return s.logStatusChange(actorID, order.ID, order.Status, status, r)
}

// CancelManually cancels an order from the back office with a reason
func (s *OrderService) CancelManually(orderID int, reason string, actorID *int, r *http.Request) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.IsCancelled() {
		return nil
	}

	if err := s.orderRepo.Cancel(order.ID, models.OrderCancelledManual, reason); err != nil {
		return err
	}
	return s.logStatusChange(actorID, order.ID, order.Status, models.OrderCancelledManual, r)
}

// Track finds an order by contact email and the customer-facing order number
func (s *OrderService) Track(email, humanOrderNumber string) (*models.Order, error) {
	if err := models.ValidateContactEmail(email); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByEmailAndNumber(email, humanOrderNumber)
}

// Get returns an order by ID
func (s *OrderService) Get(orderID int) (*models.Order, error) {
	return s.orderRepo.GetByID(orderID)
}

// ListByStatus returns orders in a status for the back office
func (s *OrderService) ListByStatus(status models.OrderStatus) ([]*models.Order, error) {
	return s.orderRepo.ListByStatus(status)
}

func (s *OrderService) logStatusChange(actorID *int, orderID int, from, to models.OrderStatus, r *http.Request) error {
	err := s.audit.LogAction(actorID, models.ActionOrderStatusChange, "order",
		fmt.Sprintf("%d", orderID), map[string]any{"from": string(from), "to": string(to)}, r)
	if err != nil {
		log.Printf("Failed to audit status change for order %d: %v", orderID, err)
	}
	return nil
}

// findOrCreateCustomer looks up the customer by email, creating a CUSTOMER
// account with a generated password on first order.
func (s *OrderService) findOrCreateCustomer(req *CheckoutRequest, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	fullName := req.FirstName
	if req.LastName != "" {
		if fullName != "" {
			fullName += " "
		}
		fullName += req.LastName
	}
	if fullName == "" {
		fullName = req.Email
	}

	password, err := models.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user = &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			return s.userRepo.GetByEmail(req.Email)
		}
		return nil, err
	}

	if err := s.audit.LogAction(nil, models.ActionUserCreate, "user",
		fmt.Sprintf("%d", user.ID), map[string]any{"role": string(user.Role)}, nil); err != nil {
		log.Printf("Failed to audit user %d: %v", user.ID, err)
	}
	return user, nil
}

type athleteGroup struct {
	athleteID int
	items     []models.CartItem
}

// groupByAthlete splits cart items into per-athlete groups, preserving the
// order athletes first appear in the cart.
func groupByAthlete(items []models.CartItem) []athleteGroup {
	index := map[int]int{}
	var groups []athleteGroup
	for _, item := range items {
		i, ok := index[item.AthleteID]
		if !ok {
			i = len(groups)
			index[item.AthleteID] = i
			groups = append(groups, athleteGroup{athleteID: item.AthleteID})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}
