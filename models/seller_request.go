package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// SellerRequest is a pending application to become a seller. Exactly one
// transition out of pending is permitted.
type SellerRequest struct {
	ID              uuid.UUID     `json:"id" bson:"_id"`
	UserID          uuid.UUID     `json:"user_id" bson:"user_id"`
	ShopName        string        `json:"shop_name" bson:"shop_name"`
	Contact         string        `json:"contact" bson:"contact"`
	PayoutMethod    string        `json:"payout_method" bson:"payout_method"`
	PayoutAccount   string        `json:"payout_account" bson:"payout_account"`
	Status          RequestStatus `json:"status" bson:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	ApprovedBy      *uuid.UUID    `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}
