package services

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adi-nugroho/laundrylink-api/models"
)

// OrderService owns the order lifecycle: intake, status transitions, payment
// updates, deletion and tracking lookups. It is the only code path that writes
// orders.status, and every write happens in the same transaction as the
// matching status-history append, so readers never observe one without the
// other.
type OrderService struct {
	db     *gorm.DB
	strict bool
}

// NewOrderService creates a new order service. When strict is true, backward
// status transitions are rejected; otherwise any valid status is accepted as
// a target and the move is recorded in the history like any other.
func NewOrderService(db *gorm.DB, strict bool) *OrderService {
	return &OrderService{db: db, strict: strict}
}

// CreateOrderInput carries the intake data for a new order
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress *string
	ServiceType     string
	WeightKg        *float64
	ItemCount       *int
	TotalPrice      float64
	PaymentMethod   *string
	PaymentStatus   string
	EstimatedDoneAt *time.Time
}

// priceTolerance absorbs float rounding when comparing client-supplied totals
// against the server-side recomputation
const priceTolerance = 0.01

// CreateOrder registers a new laundry job for a partner shop. It upserts the
// customer by phone number, allocates a tracking code, persists the order with
// status Received and appends the initial status event — all inside one
// transaction, so a failure at any step leaves nothing behind.
func (s *OrderService) CreateOrder(partnerID uint, actor *models.User, in CreateOrderInput) (*models.Order, error) {
	if err := s.validateIntake(&in); err != nil {
		return nil, err
	}

	var partner models.Partner
	if err := s.db.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{Code: "PARTNER_NOT_FOUND", Message: "Partner not found", HTTPStatus: http.StatusNotFound}
		}
		return nil, err
	}

	if err := s.verifyPrice(partnerID, &in); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, in.CustomerName, in.CustomerPhone, in.CustomerAddress)
		if err != nil {
			return err
		}

		code, err := GenerateTrackingCode(tx)
		if err != nil {
			return err
		}

		order = models.Order{
			TrackingCode:    code,
			ServiceType:     in.ServiceType,
			WeightKg:        in.WeightKg,
			ItemCount:       in.ItemCount,
			TotalPrice:      in.TotalPrice,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   in.PaymentStatus,
			Status:          models.StatusReceived,
			EstimatedDoneAt: in.EstimatedDoneAt,
			PartnerID:       partner.ID,
			CustomerID:      customer.ID,
		}
		if err := tx.Create(&order).Error; err != nil {
			if isUniqueViolation(err) {
				// The pre-check lost a race; the tracking_code unique index caught it
				return &ServiceError{Code: "CONFLICT", Message: "Tracking code already exists", HTTPStatus: http.StatusConflict}
			}
			return err
		}

		event := models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  models.StatusReceived,
			Note:    "Order received",
			ActorID: actor.ID,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Customer").Preload("Partner").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionStatus moves an order to a new lifecycle status on behalf of an
// actor. The status write and the history append happen in one transaction.
// Entering the terminal status sets the completion timestamp; leaving it
// (permissive mode only) clears the timestamp again, so it is set exactly
// when the order is in the terminal state.
func (s *OrderService) TransitionStatus(orderID uint, actor *models.User, newStatus, note string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, &ServiceError{
			Code:       "INVALID_STATUS",
			Message:    fmt.Sprintf("%q is not a valid order status", newStatus),
			HTTPStatus: http.StatusBadRequest,
		}
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound()
		}
		return nil, err
	}

	if err := s.authorize(actor, &order); err != nil {
		return nil, err
	}

	if s.strict && models.StatusRank(newStatus) < models.StatusRank(order.Status) {
		return nil, &ServiceError{
			Code:       "INVALID_TRANSITION",
			Message:    fmt.Sprintf("Cannot move order backward from %s to %s", order.Status, newStatus),
			HTTPStatus: http.StatusBadRequest,
		}
	}

	if note == "" {
		note = fmt.Sprintf("Status changed to %s", newStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": newStatus}
		if models.IsTerminalStatus(newStatus) {
			now := time.Now()
			updates["completed_at"] = &now
		} else if order.CompletedAt != nil {
			updates["completed_at"] = nil
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		event := models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  newStatus,
			Note:    note,
			ActorID: actor.ID,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Customer").Preload("Partner").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePaymentInput carries a payment update for an order
type UpdatePaymentInput struct {
	PaymentMethod *string
	PaymentStatus *string
}

// UpdatePayment sets the payment method and/or status on an order
func (s *OrderService) UpdatePayment(orderID uint, actor *models.User, in UpdatePaymentInput) (*models.Order, error) {
	updates := make(map[string]interface{})
	if in.PaymentMethod != nil {
		if !models.IsValidPaymentMethod(*in.PaymentMethod) {
			return nil, validationError(fmt.Sprintf("%q is not a valid payment method", *in.PaymentMethod))
		}
		updates["payment_method"] = *in.PaymentMethod
	}
	if in.PaymentStatus != nil {
		if !models.IsValidPaymentStatus(*in.PaymentStatus) {
			return nil, validationError(fmt.Sprintf("%q is not a valid payment status", *in.PaymentStatus))
		}
		updates["payment_status"] = *in.PaymentStatus
	}
	if len(updates) == 0 {
		return nil, validationError("Nothing to update")
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound()
		}
		return nil, err
	}

	if err := s.authorize(actor, &order); err != nil {
		return nil, err
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Customer").Preload("Partner").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SetReceiptKey records the storage key of an order's receipt photo
func (s *OrderService) SetReceiptKey(orderID uint, actor *models.User, key string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound()
		}
		return nil, err
	}

	if err := s.authorize(actor, &order); err != nil {
		return nil, err
	}

	if err := s.db.Model(&order).Update("receipt_key", key).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order with its full status history for an authorized actor
func (s *OrderService) GetOrder(orderID uint, actor *models.User) (*models.Order, []models.OrderStatusEvent, error) {
	var order models.Order
	if err := s.db.Preload("Customer").Preload("Partner").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errOrderNotFound()
		}
		return nil, nil, err
	}

	if err := s.authorize(actor, &order); err != nil {
		return nil, nil, err
	}

	events, err := s.orderHistory(order.ID)
	if err != nil {
		return nil, nil, err
	}
	return &order, events, nil
}

// ListOrders returns the orders visible to an actor: all orders for admins,
// the shop's own orders for partners. Newest first.
func (s *OrderService) ListOrders(actor *models.User) ([]models.Order, error) {
	query := s.db.Preload("Customer").Preload("Partner").Order("created_at DESC")

	if !actor.IsAdmin() {
		partner, err := s.PartnerForUser(actor.ID)
		if err != nil {
			return nil, err
		}
		query = query.Where("partner_id = ?", partner.ID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderByTrackingCode is the public, unauthenticated lookup. The code is
// matched case-insensitively. History is returned oldest first.
func (s *OrderService) GetOrderByTrackingCode(code string) (*models.Order, []models.OrderStatusEvent, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var order models.Order
	if err := s.db.Preload("Customer").Preload("Partner").
		Where("tracking_code = ?", normalized).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errOrderNotFound()
		}
		return nil, nil, err
	}

	events, err := s.orderHistory(order.ID)
	if err != nil {
		return nil, nil, err
	}
	return &order, events, nil
}

// DeleteOrder hard-deletes an order together with its entire status history
func (s *OrderService) DeleteOrder(orderID uint, actor *models.User) error {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errOrderNotFound()
		}
		return err
	}

	if err := s.authorize(actor, &order); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderStatusEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// CanActOn reports whether an actor may mutate an order: admins always can,
// partners only when the order belongs to their shop. Every mutating
// operation goes through this single check.
func (s *OrderService) CanActOn(actor *models.User, order *models.Order) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}

	partner, err := s.PartnerForUser(actor.ID)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return false, nil
		}
		return false, err
	}
	return partner.ID == order.PartnerID, nil
}

// PartnerForUser returns the partner shop profile owned by a user
func (s *OrderService) PartnerForUser(userID uint) (*models.Partner, error) {
	var partner models.Partner
	if err := s.db.Where("user_id = ?", userID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{Code: "PARTNER_NOT_FOUND", Message: "Partner profile not found", HTTPStatus: http.StatusNotFound}
		}
		return nil, err
	}
	return &partner, nil
}

func (s *OrderService) authorize(actor *models.User, order *models.Order) error {
	ok, err := s.CanActOn(actor, order)
	if err != nil {
		return err
	}
	if !ok {
		return &ServiceError{
			Code:       "FORBIDDEN",
			Message:    "You do not have permission to act on this order",
			HTTPStatus: http.StatusForbidden,
		}
	}
	return nil
}

func (s *OrderService) orderHistory(orderID uint) ([]models.OrderStatusEvent, error) {
	var events []models.OrderStatusEvent
	if err := s.db.Where("order_id = ?", orderID).
		Preload("Actor").
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// validateIntake checks the fixed enums and the weight/item-count exclusivity
// rule, and applies the unpaid default
func (s *OrderService) validateIntake(in *CreateOrderInput) error {
	if in.CustomerName == "" || in.CustomerPhone == "" {
		return validationError("Customer name and phone are required")
	}

	unit, ok := models.ServiceUnit(in.ServiceType)
	if !ok {
		return &ServiceError{
			Code:       "INVALID_SERVICE_TYPE",
			Message:    fmt.Sprintf("%q is not a valid service type", in.ServiceType),
			HTTPStatus: http.StatusBadRequest,
		}
	}

	switch unit {
	case models.UnitKg:
		if in.WeightKg == nil || *in.WeightKg <= 0 {
			return validationError("A positive weight_kg is required for this service type")
		}
		if in.ItemCount != nil {
			return validationError("item_count must not be set for a kg-based service")
		}
	case models.UnitItem:
		if in.ItemCount == nil || *in.ItemCount <= 0 {
			return validationError("A positive item_count is required for this service type")
		}
		if in.WeightKg != nil {
			return validationError("weight_kg must not be set for an item-based service")
		}
	}

	if in.TotalPrice < 0 {
		return validationError("total_price must not be negative")
	}

	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentUnpaid
	}
	if !models.IsValidPaymentStatus(in.PaymentStatus) {
		return validationError(fmt.Sprintf("%q is not a valid payment status", in.PaymentStatus))
	}
	if in.PaymentMethod != nil && !models.IsValidPaymentMethod(*in.PaymentMethod) {
		return validationError(fmt.Sprintf("%q is not a valid payment method", *in.PaymentMethod))
	}

	return nil
}

// verifyPrice recomputes the order total from the partner's price list when a
// matching row exists and rejects mismatched client-supplied totals. Shops
// without a price list row for the service type keep the caller's total as-is.
func (s *OrderService) verifyPrice(partnerID uint, in *CreateOrderInput) error {
	var price models.ServicePrice
	err := s.db.Where("partner_id = ? AND service_type = ?", partnerID, in.ServiceType).First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var quantity float64
	switch price.Unit {
	case models.UnitKg:
		quantity = *in.WeightKg
	case models.UnitItem:
		quantity = float64(*in.ItemCount)
	}

	expected := price.UnitPrice * quantity
	if math.Abs(expected-in.TotalPrice) > priceTolerance {
		return &ServiceError{
			Code:       "PRICE_MISMATCH",
			Message:    fmt.Sprintf("total_price %.2f does not match the price list total %.2f", in.TotalPrice, expected),
			HTTPStatus: http.StatusBadRequest,
		}
	}
	return nil
}

// upsertCustomer finds a customer by phone and refreshes their name/address,
// or creates a new row for an unseen phone number
func upsertCustomer(tx *gorm.DB, name, phone string, address *string) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("phone = ?", phone).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{Name: name, Phone: phone, Address: address}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": name}
	if address != nil {
		updates["address"] = address
	}
	if err := tx.Model(&customer).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func errOrderNotFound() *ServiceError {
	return &ServiceError{Code: "ORDER_NOT_FOUND", Message: "Order not found", HTTPStatus: http.StatusNotFound}
}

func validationError(message string) *ServiceError {
	return &ServiceError{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest}
}

// isUniqueViolation checks for a uniqueness constraint error
// (works with both PostgreSQL and SQLite)
func isUniqueViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
