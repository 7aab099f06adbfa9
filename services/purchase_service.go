package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/kafka"
	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/repository"
)

// Notifier delivers buyer/seller emails for a fresh order. Implementations
// must not block; dispatch failure never reaches the caller.
type Notifier interface {
	NotifyPurchase(order *models.Order)
}

type PurchaseRequest struct {
	ListingID      string `json:"listing_id" binding:"required"`
	Contact        string `json:"contact" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	PaymentAccount string `json:"payment_account" binding:"required"`
}

type PurchaseResult struct {
	OrderID      uuid.UUID `json:"order_id"`
	PaymentID    string    `json:"payment_id"`
	Amount       int       `json:"amount"`
	Instructions string    `json:"instructions"`
}

// PurchaseService drives reservation -> payment initiation -> order
// materialization -> notification for a single buy request.
type PurchaseService interface {
	Purchase(ctx context.Context, buyerID string, req *PurchaseRequest) (*PurchaseResult, *ServiceError)
}

type purchaseServiceImpl struct {
	listings repository.ListingRepository
	sellers  repository.SellerRepository
	users    repository.UserRepository
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	notifier Notifier
	producer kafka.ProducerAPI
	logger   *zap.Logger
}

func NewPurchaseService(
	listings repository.ListingRepository,
	sellers repository.SellerRepository,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	notifier Notifier,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) PurchaseService {
	return &purchaseServiceImpl{
		listings: listings,
		sellers:  sellers,
		users:    users,
		payments: payments,
		orders:   orders,
		notifier: notifier,
		producer: producer,
		logger:   logger,
	}
}

// Collection accounts for manual transfers, one per supported method.
var collectionAccounts = map[models.PaymentMethod]string{
	models.PaymentMethodJazzCash:     "0300-1234567",
	models.PaymentMethodEasypaisa:    "0345-7654321",
	models.PaymentMethodBankTransfer: "PK36SCBL0000001123456702",
}

func (s *purchaseServiceImpl) Purchase(ctx context.Context, buyerID string, req *PurchaseRequest) (*PurchaseResult, *ServiceError) {
	buyerUUID, err := uuid.Parse(buyerID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, errValidation("Invalid listing ID format")
	}
	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, errValidation("Unsupported payment method")
	}
	if req.Contact == "" || req.PaymentAccount == "" {
		return nil, errValidation("Contact and payment account are required")
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("Listing not found")
		}
		s.logger.Error("Failed to fetch listing", zap.String("listing_id", req.ListingID), zap.Error(err))
		return nil, errInternal("Failed to fetch listing")
	}
	if listing.Status != models.ListingStatusApproved {
		return nil, errConflict("Listing is not available for purchase")
	}

	// A listing must never outlive its seller.
	seller, err := s.sellers.FindByID(ctx, listing.SellerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("Seller not found for listing")
		}
		s.logger.Error("Failed to fetch seller", zap.String("seller_id", listing.SellerID.String()), zap.Error(err))
		return nil, errInternal("Failed to fetch seller")
	}
	if seller.Status != models.SellerStatusActive {
		return nil, errConflict("Seller is currently suspended")
	}
	if seller.UserID == buyerUUID {
		return nil, errValidation("You cannot purchase your own listing")
	}

	buyer, err := s.users.FindByID(ctx, buyerUUID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNotFound("User not found")
		}
		s.logger.Error("Failed to fetch buyer", zap.String("user_id", buyerID), zap.Error(err))
		return nil, errInternal("Failed to fetch user")
	}

	payment := &models.Payment{
		ID:        newPaymentID(),
		ListingID: listing.ID,
		BuyerID:   buyerUUID,
		SellerID:  seller.ID,
		Method:    method,
		Account:   req.PaymentAccount,
		Amount:    listing.Price,
		Status:    models.PaymentStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	payment.Instructions = buildInstructions(method, listing.Price, payment.ID)

	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to create payment attempt", zap.String("listing_id", req.ListingID), zap.Error(err))
		return nil, errInternal("Failed to initiate payment")
	}

	// Reservation point. The conditional write is what prevents a double
	// sale; a read-then-write pair here would reopen the race.
	sold, err := s.listings.MarkSold(ctx, listing.ID)
	if err != nil {
		s.failPayment(ctx, payment.ID)
		s.logger.Error("Failed to reserve listing", zap.String("listing_id", req.ListingID), zap.Error(err))
		return nil, errInternal("Failed to reserve listing")
	}
	if !sold {
		s.failPayment(ctx, payment.ID)
		return nil, errConflict("Listing was just sold to another buyer")
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:           uuid.New(),
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		Buyer: models.BuyerSnapshot{
			ID:      buyer.ID,
			Name:    buyer.Name,
			Contact: req.Contact,
		},
		Seller: models.SellerSnapshot{
			ID:       seller.ID,
			ShopName: seller.ShopName,
			Contact:  seller.Contact,
		},
		Price: listing.Price,
		Payment: models.OrderPayment{
			PaymentID: payment.ID,
			Method:    method,
			Account:   req.PaymentAccount,
			Status:    models.OrderPaymentPending,
		},
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// Compensate: hand the listing back and void the attempt, so the
		// failed purchase leaves no half-applied state behind.
		if _, releaseErr := s.listings.Release(ctx, listing.ID); releaseErr != nil {
			s.logger.Error("Failed to release listing after order-create failure",
				zap.String("listing_id", req.ListingID),
				zap.Error(releaseErr),
			)
		}
		s.failPayment(ctx, payment.ID)
		s.logger.Error("Failed to create order", zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, errInternal("Failed to create order")
	}

	// Past this point the order exists and nothing may roll it back.
	s.notifier.NotifyPurchase(order)
	s.publishEvent(ctx, models.EventOrderCreated, order)

	s.logger.Info("Purchase completed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", payment.ID),
		zap.String("listing_id", req.ListingID),
		zap.Int("amount", order.Price),
	)

	return &PurchaseResult{
		OrderID:      order.ID,
		PaymentID:    payment.ID,
		Amount:       payment.Amount,
		Instructions: payment.Instructions,
	}, nil
}

func (s *purchaseServiceImpl) failPayment(ctx context.Context, paymentID string) {
	if err := s.payments.MarkFailed(ctx, paymentID); err != nil {
		s.logger.Error("Failed to mark payment failed", zap.String("payment_id", paymentID), zap.Error(err))
	}
}

func (s *purchaseServiceImpl) publishEvent(ctx context.Context, eventType string, order *models.Order) {
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
		// best-effort; the purchase already succeeded
		s.logger.Warn("Order event publish failed", zap.String("order_id", evt.OrderID), zap.Error(err))
	}
}

// newPaymentID builds a time+random composite. The id doubles as the
// document key, so the random part carries enough entropy that purchases
// landing in the same millisecond cannot collide.
func newPaymentID() string {
	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func buildInstructions(method models.PaymentMethod, amount int, paymentID string) string {
	account := collectionAccounts[method]
	switch method {
	case models.PaymentMethodJazzCash:
		return fmt.Sprintf("Send PKR %d via JazzCash to %s and quote reference %s in the transfer note.", amount, account, paymentID)
	case models.PaymentMethodEasypaisa:
		return fmt.Sprintf("Send PKR %d via Easypaisa to %s and quote reference %s in the transfer note.", amount, account, paymentID)
	default:
		return fmt.Sprintf("Transfer PKR %d to IBAN %s and quote reference %s in the payment description.", amount, account, paymentID)
	}
}
