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

// SellerRequestRepository defines the interface for seller application data
// access. ClaimApproval and MarkRejected are conditional writes on
// status == pending, so a request can leave pending exactly once even under
// a double-submitted admin decision.
type SellerRequestRepository interface {
	Create(ctx context.Context, req *models.SellerRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SellerRequest, error)
	HasPending(ctx context.Context, userID uuid.UUID) (bool, error)
	FindPending(ctx context.Context) ([]models.SellerRequest, error)
	ClaimApproval(ctx context.Context, id, approverID uuid.UUID) (bool, error)
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	Reopen(ctx context.Context, id uuid.UUID) error
}

type mongoSellerRequestRepo struct {
	collection *mongo.Collection
}

func NewMongoSellerRequestRepo(db *mongo.Database) SellerRequestRepository {
	return &mongoSellerRequestRepo{collection: db.Collection("seller_requests")}
}

func (r *mongoSellerRequestRepo) Create(ctx context.Context, req *models.SellerRequest) error {
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

func (r *mongoSellerRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SellerRequest, error) {
	var req models.SellerRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *mongoSellerRequestRepo) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"user_id": userID, "status": models.RequestStatusPending})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoSellerRequestRepo) FindPending(ctx context.Context) ([]models.SellerRequest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.RequestStatusPending}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.SellerRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ClaimApproval is the double-approve gate: pending -> approved, stamping
// the approver and timestamp in the same write.
func (r *mongoSellerRequestRepo) ClaimApproval(ctx context.Context, id, approverID uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":      models.RequestStatusApproved,
			"approved_by": approverID,
			"approved_at": now,
			"updated_at":  now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoSellerRequestRepo) MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{
			"status":           models.RequestStatusRejected,
			"rejection_reason": reason,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Reopen reverts a claimed approval back to pending when a later step of
// the approval saga failed.
func (r *mongoSellerRequestRepo) Reopen(ctx context.Context, id uuid.UUID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestStatusApproved},
		bson.M{"$set": bson.M{
			"status":     models.RequestStatusPending,
			"updated_at": time.Now().UTC(),
		}, "$unset": bson.M{"approved_by": "", "approved_at": ""}},
	)
	return err
}
