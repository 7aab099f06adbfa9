package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/kafka"
	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/repository"
)

// OrderService owns the order state machine:
// pending -> processing -> completed, with pending/processing -> cancelled.
// The nested payment status moves pending -> paid only through
// ConfirmPayment, and completion requires it.
type OrderService interface {
	GetOrder(ctx context.Context, orderID, actorID, role string) (*models.Order, *ServiceError)
	ListBuyerOrders(ctx context.Context, buyerID string) ([]models.Order, *ServiceError)
	ListSellerOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	StartProcessing(ctx context.Context, orderID, userID string) *ServiceError
	Complete(ctx context.Context, orderID, userID string) *ServiceError
	Cancel(ctx context.Context, orderID, actorID, role string) *ServiceError
	ConfirmPayment(ctx context.Context, paymentID string) *ServiceError
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, *ServiceError)
	ListRefundIntents(ctx context.Context) ([]models.RefundIntent, *ServiceError)
}

type orderServiceImpl struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	sellers  repository.SellerRepository
	producer kafka.ProducerAPI
	logger   *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	sellers repository.SellerRepository,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:   orders,
		payments: payments,
		sellers:  sellers,
		producer: producer,
		logger:   logger,
	}
}

func (s *orderServiceImpl) loadOrder(ctx context.Context, orderID string) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errValidation("Invalid order ID format")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, errInternal("Failed to fetch order")
	}
	return order, nil
}

// sellerForUser resolves the seller record owned by the acting user.
func (s *orderServiceImpl) sellerForUser(ctx context.Context, userID string) (*models.Seller, *ServiceError) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	seller, err := s.sellers.FindByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errForbidden("Not a seller account")
		}
		s.logger.Error("Failed to fetch seller", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to fetch seller")
	}
	return seller, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, actorID, role string) (*models.Order, *ServiceError) {
	order, svcErr := s.loadOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}
	if role == models.RoleAdmin {
		return order, nil
	}
	if order.Buyer.ID.String() == actorID {
		return order, nil
	}
	if role == models.RoleSeller {
		seller, svcErr := s.sellerForUser(ctx, actorID)
		if svcErr == nil && seller.ID == order.Seller.ID {
			return order, nil
		}
	}
	return nil, errForbidden("Access denied")
}

func (s *orderServiceImpl) ListBuyerOrders(ctx context.Context, buyerID string) ([]models.Order, *ServiceError) {
	id, err := uuid.Parse(buyerID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	orders, err := s.orders.FindByBuyer(ctx, id)
	if err != nil {
		s.logger.Error("Failed to fetch buyer orders", zap.String("buyer_id", buyerID), zap.Error(err))
		return nil, errInternal("Failed to fetch orders")
	}
	return orders, nil
}

func (s *orderServiceImpl) ListSellerOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	seller, svcErr := s.sellerForUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	orders, err := s.orders.FindBySeller(ctx, seller.ID)
	if err != nil {
		s.logger.Error("Failed to fetch seller orders", zap.String("seller_id", seller.ID.String()), zap.Error(err))
		return nil, errInternal("Failed to fetch orders")
	}
	return orders, nil
}

// StartProcessing is the seller acknowledging fulfillment. No payment
// precondition here.
func (s *orderServiceImpl) StartProcessing(ctx context.Context, orderID, userID string) *ServiceError {
	seller, svcErr := s.sellerForUser(ctx, userID)
	if svcErr != nil {
		return svcErr
	}
	order, svcErr := s.loadOrder(ctx, orderID)
	if svcErr != nil {
		return svcErr
	}
	if order.Seller.ID != seller.ID {
		return errForbidden("Order belongs to another seller")
	}

	ok, err := s.orders.SetProcessing(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to set order processing", zap.String("order_id", orderID), zap.Error(err))
		return errInternal("Failed to update order")
	}
	if !ok {
		return errConflict("Order is not pending")
	}
	return nil
}

func (s *orderServiceImpl) Complete(ctx context.Context, orderID, userID string) *ServiceError {
	seller, svcErr := s.sellerForUser(ctx, userID)
	if svcErr != nil {
		return svcErr
	}
	order, svcErr := s.loadOrder(ctx, orderID)
	if svcErr != nil {
		return svcErr
	}
	if order.Seller.ID != seller.ID {
		return errForbidden("Order belongs to another seller")
	}

	ok, err := s.orders.Complete(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to complete order", zap.String("order_id", orderID), zap.Error(err))
		return errInternal("Failed to update order")
	}
	if !ok {
		// Distinguish the two preconditions for the caller.
		current, svcErr := s.loadOrder(ctx, orderID)
		if svcErr != nil {
			return svcErr
		}
		if current.Status != models.OrderStatusProcessing {
			return errConflict("Order is not in processing")
		}
		return errConflict("Payment has not been confirmed yet")
	}

	if err := s.sellers.RecordSale(ctx, seller.ID, order.Price); err != nil {
		s.logger.Error("Failed to update seller sales counters",
			zap.String("seller_id", seller.ID.String()),
			zap.Error(err),
		)
	}
	s.publishEvent(ctx, models.EventOrderCompleted, order)
	s.logger.Info("Order completed", zap.String("order_id", orderID))
	return nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, orderID, actorID, role string) *ServiceError {
	order, svcErr := s.loadOrder(ctx, orderID)
	if svcErr != nil {
		return svcErr
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return errValidation("Invalid user ID format")
	}

	// Buyers may cancel their own pending order; sellers and admins may
	// also cancel one that is already processing.
	var from []models.OrderStatus
	switch {
	case role == models.RoleAdmin:
		from = []models.OrderStatus{models.OrderStatusPending, models.OrderStatusProcessing}
	case order.Buyer.ID == actorUUID:
		from = []models.OrderStatus{models.OrderStatusPending}
	case role == models.RoleSeller:
		seller, svcErr := s.sellerForUser(ctx, actorID)
		if svcErr != nil {
			return svcErr
		}
		if seller.ID != order.Seller.ID {
			return errForbidden("Order belongs to another seller")
		}
		from = []models.OrderStatus{models.OrderStatusPending, models.OrderStatusProcessing}
	default:
		return errForbidden("Access denied")
	}

	ok, err := s.orders.Cancel(ctx, order.ID, from, actorUUID)
	if err != nil {
		s.logger.Error("Failed to cancel order", zap.String("order_id", orderID), zap.Error(err))
		return errInternal("Failed to cancel order")
	}
	if !ok {
		return errConflict("Order can no longer be cancelled")
	}

	// Re-fetch: a payment confirmation may have landed while cancelling,
	// and paid-then-cancelled must leave a refund intent behind.
	current, svcErr := s.loadOrder(ctx, orderID)
	if svcErr == nil {
		order = current
	}
	if order.Payment.Status == models.OrderPaymentPaid {
		s.recordRefundIntent(ctx, order, "order cancelled after payment")
	}

	s.publishEvent(ctx, models.EventOrderCancelled, order)
	s.logger.Info("Order cancelled", zap.String("order_id", orderID), zap.String("by", actorID))
	return nil
}

// ConfirmPayment is the webhook-equivalent callback and the only writer of
// payment.status = paid.
func (s *orderServiceImpl) ConfirmPayment(ctx context.Context, paymentID string) *ServiceError {
	ok, err := s.payments.MarkConfirmed(ctx, paymentID)
	if err != nil {
		s.logger.Error("Failed to confirm payment", zap.String("payment_id", paymentID), zap.Error(err))
		return errInternal("Failed to confirm payment")
	}
	if !ok {
		payment, err := s.payments.FindByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return errNotFound("Payment not found")
			}
			s.logger.Error("Failed to fetch payment", zap.String("payment_id", paymentID), zap.Error(err))
			return errInternal("Failed to fetch payment")
		}
		if payment.Status == models.PaymentStatusFailed {
			return errConflict("Payment attempt already failed")
		}
		// An earlier call may have confirmed the payment and then died
		// before the order update. Converge the order before reporting
		// the repeat so a retry can never leave it wedged half-applied.
		if svcErr := s.applyPaymentToOrder(ctx, paymentID); svcErr != nil {
			return svcErr
		}
		return errConflict("Payment already confirmed")
	}

	return s.applyPaymentToOrder(ctx, paymentID)
}

// applyPaymentToOrder moves a confirmed payment onto its order. The paid
// mark is a conditional write, so repeated calls settle on the first
// outcome; a cancelled order gets a refund intent instead of being left
// silently paid.
func (s *orderServiceImpl) applyPaymentToOrder(ctx context.Context, paymentID string) *ServiceError {
	order, err := s.orders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A confirmed payment without an order is an anomaly worth
			// surfacing rather than hiding.
			s.logger.Error("Confirmed payment has no order", zap.String("payment_id", paymentID))
			return errNotFound("Order not found for payment")
		}
		s.logger.Error("Failed to fetch order for payment", zap.String("payment_id", paymentID), zap.Error(err))
		return errInternal("Failed to fetch order")
	}

	paid, err := s.orders.MarkPaymentPaid(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to mark order payment paid", zap.String("order_id", order.ID.String()), zap.Error(err))
		return errInternal("Failed to update order payment")
	}
	if !paid {
		// already applied by an earlier call
		return nil
	}

	if order.Status == models.OrderStatusCancelled {
		// The money arrived for an order that is already dead; leave an
		// intent for the operators to settle.
		s.recordRefundIntent(ctx, order, "payment confirmed after cancellation")
	}

	s.publishEvent(ctx, models.EventPaymentConfirmed, order)
	s.logger.Info("Payment confirmed",
		zap.String("payment_id", paymentID),
		zap.String("order_id", order.ID.String()),
	)
	return nil
}

func (s *orderServiceImpl) recordRefundIntent(ctx context.Context, order *models.Order, reason string) {
	intent := &models.RefundIntent{
		ID:        uuid.New(),
		OrderID:   order.ID,
		PaymentID: order.Payment.PaymentID,
		BuyerID:   order.Buyer.ID,
		Amount:    order.Price,
		Reason:    reason,
		Status:    models.RefundIntentOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.payments.CreateRefundIntent(ctx, intent); err != nil {
		s.logger.Error("Failed to record refund intent",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", order.Payment.PaymentID),
			zap.Error(err),
		)
	}
}

func (s *orderServiceImpl) GetPayment(ctx context.Context, paymentID string) (*models.Payment, *ServiceError) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("Payment not found")
		}
		s.logger.Error("Failed to fetch payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, errInternal("Failed to fetch payment")
	}
	return payment, nil
}

func (s *orderServiceImpl) ListRefundIntents(ctx context.Context) ([]models.RefundIntent, *ServiceError) {
	intents, err := s.payments.FindRefundIntents(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch refund intents", zap.Error(err))
		return nil, errInternal("Failed to fetch refund intents")
	}
	return intents, nil
}

func (s *orderServiceImpl) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.producer == nil {
		return
	}
	evt := models.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		ListingID: order.ListingID.String(),
		BuyerID:   order.Buyer.ID.String(),
		SellerID:  order.Seller.ID.String(),
		PaymentID: order.Payment.PaymentID,
		Amount:    order.Price,
		Timestamp: time.Now().UTC(),
	}
	if err := s.producer.PublishOrderEvent(ctx, evt); err != nil {
		s.logger.Warn("Order event publish failed", zap.String("order_id", evt.OrderID), zap.Error(err))
	}
}
