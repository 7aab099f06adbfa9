package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodJazzCash     PaymentMethod = "jazzcash"
	PaymentMethodEasypaisa    PaymentMethod = "easypaisa"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodJazzCash, PaymentMethodEasypaisa, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is a payment-attempt record, deliberately decoupled from Order so
// a failed or abandoned attempt leaves no order trace. The ID is a
// time+random composite generated by the purchase orchestrator.
type Payment struct {
	ID           string        `json:"id" bson:"_id"`
	ListingID    uuid.UUID     `json:"listing_id" bson:"listing_id"`
	BuyerID      uuid.UUID     `json:"buyer_id" bson:"buyer_id"`
	SellerID     uuid.UUID     `json:"seller_id" bson:"seller_id"`
	Method       PaymentMethod `json:"method" bson:"method"`
	Account      string        `json:"account" bson:"account"`
	Amount       int           `json:"amount" bson:"amount"` // in PKR
	Instructions string        `json:"instructions" bson:"instructions"`
	Status       PaymentStatus `json:"status" bson:"status"`
	ConfirmedAt  *time.Time    `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	FailedAt     *time.Time    `json:"failed_at,omitempty" bson:"failed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
}

// RefundIntent is written when a paid order is cancelled. Settlement of the
// refund itself happens outside this service.
type RefundIntent struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	OrderID   uuid.UUID `json:"order_id" bson:"order_id"`
	PaymentID string    `json:"payment_id" bson:"payment_id"`
	BuyerID   uuid.UUID `json:"buyer_id" bson:"buyer_id"`
	Amount    int       `json:"amount" bson:"amount"`
	Reason    string    `json:"reason" bson:"reason"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

const RefundIntentOpen = "open"
