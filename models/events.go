package models

import "time"

const (
	EventOrderCreated     = "order_created"
	EventPaymentConfirmed = "payment_confirmed"
	EventOrderCompleted   = "order_completed"
	EventOrderCancelled   = "order_cancelled"
)

// OrderEvent is the payload published to the order-events topic.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
