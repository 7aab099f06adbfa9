package models

import (
	"time"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
	ListingStatusSold     ListingStatus = "sold"
)

// Listing is a sellable game account. Credentials are handed to the buyer
// off-band after completion and are never serialized into API responses.
type Listing struct {
	ID          uuid.UUID     `json:"id" bson:"_id"`
	SellerID    uuid.UUID     `json:"seller_id" bson:"seller_id"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Price       int           `json:"price" bson:"price"` // in PKR
	Credentials string        `json:"-" bson:"credentials"`
	Status      ListingStatus `json:"status" bson:"status"`
	ReviewedBy  *uuid.UUID    `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewNote  string        `json:"review_note,omitempty" bson:"review_note,omitempty"`
	SoldAt      *time.Time    `json:"sold_at,omitempty" bson:"sold_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
