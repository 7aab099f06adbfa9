package models

import (
	"time"

	"github.com/google/uuid"
)

type SellerStatus string

const (
	SellerStatusActive    SellerStatus = "active"
	SellerStatusSuspended SellerStatus = "suspended"
)

// Seller is an approved vendor. Created exactly once, from an approved
// SellerRequest. Verified is a separate badge process and is never set
// at approval time.
type Seller struct {
	ID            uuid.UUID    `json:"id" bson:"_id"`
	UserID        uuid.UUID    `json:"user_id" bson:"user_id"`
	ShopName      string       `json:"shop_name" bson:"shop_name"`
	Contact       string       `json:"contact" bson:"contact"`
	PayoutMethod  string       `json:"payout_method" bson:"payout_method"`
	PayoutAccount string       `json:"payout_account" bson:"payout_account"`
	Verified      bool         `json:"verified" bson:"verified"`
	Status        SellerStatus `json:"status" bson:"status"`
	TotalSales    int          `json:"total_sales" bson:"total_sales"`
	TotalEarned   int          `json:"total_earned" bson:"total_earned"` // in PKR
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}
