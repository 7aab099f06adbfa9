package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/repository"
)

type SubmitListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"required,min=1"`
	Credentials string `json:"credentials" binding:"required"`
}

type ReviewListingRequest struct {
	Decision string `json:"decision" binding:"required"`
	Note     string `json:"note"`
}

type ListingPage struct {
	Listings []models.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ListingService covers listing submission, admin review and browse reads.
// The sold transition is owned by the purchase orchestrator, not here.
type ListingService interface {
	Submit(ctx context.Context, userID string, req *SubmitListingRequest) (*models.Listing, *ServiceError)
	Browse(ctx context.Context, page, limit int) (*ListingPage, *ServiceError)
	MyListings(ctx context.Context, userID string) ([]models.Listing, *ServiceError)
	Review(ctx context.Context, listingID, reviewerID string, req *ReviewListingRequest) *ServiceError
}

type listingServiceImpl struct {
	listings repository.ListingRepository
	sellers  repository.SellerRepository
	logger   *zap.Logger
}

func NewListingService(
	listings repository.ListingRepository,
	sellers repository.SellerRepository,
	logger *zap.Logger,
) ListingService {
	return &listingServiceImpl{listings: listings, sellers: sellers, logger: logger}
}

func (s *listingServiceImpl) activeSellerForUser(ctx context.Context, userID string) (*models.Seller, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errValidation("Invalid user ID format")
	}
	seller, err := s.sellers.FindByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errForbidden("Only sellers can manage listings")
		}
		s.logger.Error("Failed to fetch seller", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal("Failed to fetch seller")
	}
	return seller, nil
}

func (s *listingServiceImpl) Submit(ctx context.Context, userID string, req *SubmitListingRequest) (*models.Listing, *ServiceError) {
	seller, svcErr := s.activeSellerForUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if seller.Status != models.SellerStatusActive {
		return nil, errForbidden("Seller account is suspended")
	}
	if req.Price <= 0 {
		return nil, errValidation("Price must be positive")
	}
	if req.Title == "" || req.Credentials == "" {
		return nil, errValidation("Title and credentials are required")
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:          uuid.New(),
		SellerID:    seller.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Credentials: req.Credentials,
		Status:      models.ListingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		s.logger.Error("Failed to create listing", zap.String("seller_id", seller.ID.String()), zap.Error(err))
		return nil, errInternal("Failed to create listing")
	}

	s.logger.Info("Listing submitted",
		zap.String("listing_id", listing.ID.String()),
		zap.String("seller_id", seller.ID.String()),
	)
	return listing, nil
}

func (s *listingServiceImpl) Browse(ctx context.Context, page, limit int) (*ListingPage, *ServiceError) {
	listings, total, err := s.listings.FindApproved(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to browse listings", zap.Error(err))
		return nil, errInternal("Failed to fetch listings")
	}
	return &ListingPage{Listings: listings, Total: total, Page: page, Limit: limit}, nil
}

func (s *listingServiceImpl) MyListings(ctx context.Context, userID string) ([]models.Listing, *ServiceError) {
	seller, svcErr := s.activeSellerForUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	listings, err := s.listings.FindBySeller(ctx, seller.ID)
	if err != nil {
		s.logger.Error("Failed to fetch seller listings", zap.String("seller_id", seller.ID.String()), zap.Error(err))
		return nil, errInternal("Failed to fetch listings")
	}
	return listings, nil
}

func (s *listingServiceImpl) Review(ctx context.Context, listingID, reviewerID string, req *ReviewListingRequest) *ServiceError {
	id, err := uuid.Parse(listingID)
	if err != nil {
		return errValidation("Invalid listing ID format")
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return errValidation("Invalid reviewer ID format")
	}
	decision := models.ListingStatus(req.Decision)
	if decision != models.ListingStatusApproved && decision != models.ListingStatusRejected {
		return errValidation("Decision must be approved or rejected")
	}

	ok, err := s.listings.Review(ctx, id, decision, reviewerUUID, req.Note)
	if err != nil {
		s.logger.Error("Failed to review listing", zap.String("listing_id", listingID), zap.Error(err))
		return errInternal("Failed to review listing")
	}
	if !ok {
		if _, err := s.listings.FindByID(ctx, id); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return errNotFound("Listing not found")
			}
			s.logger.Error("Failed to fetch listing", zap.String("listing_id", listingID), zap.Error(err))
			return errInternal("Failed to fetch listing")
		}
		return errConflict("Listing has already been reviewed")
	}

	s.logger.Info("Listing reviewed",
		zap.String("listing_id", listingID),
		zap.String("decision", req.Decision),
	)
	return nil
}
