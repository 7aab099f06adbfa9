package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

// PaymentRepository defines the interface for payment-attempt data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	MarkFailed(ctx context.Context, id string) error
	MarkConfirmed(ctx context.Context, id string) (bool, error)
	CreateRefundIntent(ctx context.Context, intent *models.RefundIntent) error
	FindRefundIntents(ctx context.Context) ([]models.RefundIntent, error)
}

type mongoPaymentRepo struct {
	payments *mongo.Collection
	refunds  *mongo.Collection
}

func NewMongoPaymentRepo(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepo{
		payments: db.Collection("payments"),
		refunds:  db.Collection("refund_intents"),
	}
}

func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	_, err := r.payments.InsertOne(ctx, payment)
	return err
}

func (r *mongoPaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.payments.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkFailed is the compensating write for an attempt that lost the listing
// race or whose order could not be created.
func (r *mongoPaymentRepo) MarkFailed(ctx context.Context, id string) error {
	_, err := r.payments.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentStatusPending},
		bson.M{"$set": bson.M{
			"status":    models.PaymentStatusFailed,
			"failed_at": time.Now().UTC(),
		}},
	)
	return err
}

func (r *mongoPaymentRepo) MarkConfirmed(ctx context.Context, id string) (bool, error) {
	res, err := r.payments.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentStatusPending},
		bson.M{"$set": bson.M{
			"status":       models.PaymentStatusConfirmed,
			"confirmed_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoPaymentRepo) CreateRefundIntent(ctx context.Context, intent *models.RefundIntent) error {
	_, err := r.refunds.InsertOne(ctx, intent)
	return err
}

func (r *mongoPaymentRepo) FindRefundIntents(ctx context.Context) ([]models.RefundIntent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.refunds.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var intents []models.RefundIntent
	if err := cursor.All(ctx, &intents); err != nil {
		return nil, err
	}
	return intents, nil
}
