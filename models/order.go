package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "pending"
	OrderPaymentPaid    OrderPaymentStatus = "paid"
)

// BuyerSnapshot and SellerSnapshot are copies taken at purchase time so
// that later profile edits do not retroactively alter historical orders.
type BuyerSnapshot struct {
	ID      uuid.UUID `json:"id" bson:"id"`
	Name    string    `json:"name" bson:"name"`
	Contact string    `json:"contact" bson:"contact"`
}

type SellerSnapshot struct {
	ID       uuid.UUID `json:"id" bson:"id"`
	ShopName string    `json:"shop_name" bson:"shop_name"`
	Contact  string    `json:"contact" bson:"contact"`
}

// OrderPayment embeds the payment attempt reference into the order.
// Status here is independent of the top-level order status; only the
// payment confirmation callback writes it to paid.
type OrderPayment struct {
	PaymentID string             `json:"payment_id" bson:"payment_id"`
	Method    PaymentMethod      `json:"method" bson:"method"`
	Account   string             `json:"account" bson:"account"`
	Status    OrderPaymentStatus `json:"status" bson:"status"`
}

type Order struct {
	ID           uuid.UUID      `json:"id" bson:"_id"`
	ListingID    uuid.UUID      `json:"listing_id" bson:"listing_id"`
	ListingTitle string         `json:"listing_title" bson:"listing_title"`
	Buyer        BuyerSnapshot  `json:"buyer" bson:"buyer"`
	Seller       SellerSnapshot `json:"seller" bson:"seller"`
	Price        int            `json:"price" bson:"price"`
	Payment      OrderPayment   `json:"payment" bson:"payment"`
	Status       OrderStatus    `json:"status" bson:"status"`
	CancelledBy  *uuid.UUID     `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CancelledAt  *time.Time     `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}
