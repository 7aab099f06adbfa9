package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

// SellerRepository defines the interface for seller data access.
type SellerRepository interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Seller, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.SellerStatus) (bool, error)
	RecordSale(ctx context.Context, id uuid.UUID, amount int) error
}

type mongoSellerRepo struct {
	collection *mongo.Collection
}

func NewMongoSellerRepo(db *mongo.Database) SellerRepository {
	return &mongoSellerRepo{collection: db.Collection("sellers")}
}

func (r *mongoSellerRepo) Create(ctx context.Context, seller *models.Seller) error {
	_, err := r.collection.InsertOne(ctx, seller)
	return err
}

func (r *mongoSellerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&seller)
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *mongoSellerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&seller)
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

// Delete removes a seller record. Used only as the compensating action when
// role elevation fails mid-approval; active sellers are never deleted.
func (r *mongoSellerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoSellerRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.SellerStatus) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RecordSale bumps the aggregate counters after a completed order.
func (r *mongoSellerRepo) RecordSale(ctx context.Context, id uuid.UUID, amount int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"total_sales": 1, "total_earned": amount},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}
