package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

// ListingRepository defines the interface for listing data access. The
// conditional transitions (MarkSold, Release, Review) are single-document
// compare-and-swap writes: they report false when the precondition status
// did not match, never by reading first.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	FindApproved(ctx context.Context, page, limit int) ([]models.Listing, int64, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Listing, error)
	MarkSold(ctx context.Context, id uuid.UUID) (bool, error)
	Release(ctx context.Context, id uuid.UUID) (bool, error)
	Review(ctx context.Context, id uuid.UUID, status models.ListingStatus, reviewerID uuid.UUID, note string) (bool, error)
}

type mongoListingRepo struct {
	collection *mongo.Collection
}

func NewMongoListingRepo(db *mongo.Database) ListingRepository {
	return &mongoListingRepo{collection: db.Collection("listings")}
}

func (r *mongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	_, err := r.collection.InsertOne(ctx, listing)
	return err
}

func (r *mongoListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *mongoListingRepo) FindApproved(ctx context.Context, page, limit int) ([]models.Listing, int64, error) {
	filter := bson.M{"status": models.ListingStatusApproved}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *mongoListingRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// MarkSold performs the approved -> sold transition as a conditional write.
// The returned bool is false when the listing was not approved anymore,
// which is how a losing concurrent purchase observes the race.
func (r *mongoListingRepo) MarkSold(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ListingStatusApproved},
		bson.M{"$set": bson.M{
			"status":     models.ListingStatusSold,
			"sold_at":    now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Release is the compensating write for a purchase that failed after the
// reservation point: sold -> approved.
func (r *mongoListingRepo) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ListingStatusSold},
		bson.M{"$set": bson.M{
			"status":     models.ListingStatusApproved,
			"updated_at": time.Now().UTC(),
		}, "$unset": bson.M{"sold_at": ""}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoListingRepo) Review(ctx context.Context, id uuid.UUID, status models.ListingStatus, reviewerID uuid.UUID, note string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ListingStatusPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"reviewed_by": reviewerID,
			"review_note": note,
			"updated_at":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
