package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
	"github.com/freefirelenden-cell/freefirelenden-sub000/services"
)

type listingEnv struct {
	listings *mockListingRepo
	sellers  *mockSellerRepo
	svc      services.ListingService

	sellerUserID uuid.UUID
	sellerID     uuid.UUID
}

func newListingEnv() *listingEnv {
	env := &listingEnv{
		listings:     newMockListingRepo(),
		sellers:      newMockSellerRepo(),
		sellerUserID: uuid.New(),
		sellerID:     uuid.New(),
	}
	env.sellers.sellers[env.sellerID] = &models.Seller{
		ID:     env.sellerID,
		UserID: env.sellerUserID,
		Status: models.SellerStatusActive,
	}
	env.svc = services.NewListingService(env.listings, env.sellers, zap.NewNop())
	return env
}

func submitListing() *services.SubmitListingRequest {
	return &services.SubmitListingRequest{
		Title:       "Heroic account, level 70",
		Description: "full access, email changeable",
		Price:       3500,
		Credentials: "login:secret",
	}
}

func TestListing_Submit(t *testing.T) {
	env := newListingEnv()

	listing, svcErr := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	assert.Nil(t, svcErr)
	assert.Equal(t, models.ListingStatusPending, listing.Status)
	assert.Equal(t, env.sellerID, listing.SellerID)
	assert.Equal(t, 3500, listing.Price)
}

func TestListing_Submit_NotASeller(t *testing.T) {
	env := newListingEnv()

	_, svcErr := env.svc.Submit(context.Background(), uuid.NewString(), submitListing())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestListing_Submit_SuspendedSeller(t *testing.T) {
	env := newListingEnv()
	env.sellers.sellers[env.sellerID].Status = models.SellerStatusSuspended

	_, svcErr := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestListing_Review(t *testing.T) {
	env := newListingEnv()
	listing, _ := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	admin := uuid.New()

	svcErr := env.svc.Review(context.Background(), listing.ID.String(), admin.String(),
		&services.ReviewListingRequest{Decision: "approved"})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.ListingStatusApproved, env.listings.status(listing.ID))

	// a listing leaves pending exactly once
	svcErr = env.svc.Review(context.Background(), listing.ID.String(), admin.String(),
		&services.ReviewListingRequest{Decision: "rejected", Note: "second look"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, models.ListingStatusApproved, env.listings.status(listing.ID))
}

func TestListing_Review_Reject(t *testing.T) {
	env := newListingEnv()
	listing, _ := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())

	svcErr := env.svc.Review(context.Background(), listing.ID.String(), uuid.NewString(),
		&services.ReviewListingRequest{Decision: "rejected", Note: "stolen account screenshots"})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.ListingStatusRejected, env.listings.status(listing.ID))

	stored, _ := env.listings.FindByID(context.Background(), listing.ID)
	assert.Equal(t, "stolen account screenshots", stored.ReviewNote)
}

func TestListing_Review_BadDecision(t *testing.T) {
	env := newListingEnv()
	listing, _ := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())

	svcErr := env.svc.Review(context.Background(), listing.ID.String(), uuid.NewString(),
		&services.ReviewListingRequest{Decision: "sold"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestListing_Review_NotFound(t *testing.T) {
	env := newListingEnv()

	svcErr := env.svc.Review(context.Background(), uuid.NewString(), uuid.NewString(),
		&services.ReviewListingRequest{Decision: "approved"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

// Browse only surfaces approved listings.
func TestListing_Browse(t *testing.T) {
	env := newListingEnv()
	l1, _ := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	l2, _ := env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	_ = l2

	_ = env.svc.Review(context.Background(), l1.ID.String(), uuid.NewString(),
		&services.ReviewListingRequest{Decision: "approved"})

	page, svcErr := env.svc.Browse(context.Background(), 1, 20)
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1), page.Total)
	if assert.Len(t, page.Listings, 1) {
		assert.Equal(t, l1.ID, page.Listings[0].ID)
	}
}

func TestListing_MyListings(t *testing.T) {
	env := newListingEnv()
	_, _ = env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())
	_, _ = env.svc.Submit(context.Background(), env.sellerUserID.String(), submitListing())

	mine, svcErr := env.svc.MyListings(context.Background(), env.sellerUserID.String())
	assert.Nil(t, svcErr)
	assert.Len(t, mine, 2)

	_, svcErr = env.svc.MyListings(context.Background(), uuid.NewString())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}
