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

// OrderRepository defines the interface for order data access. Status
// transitions are conditional writes carrying the allowed prior state in
// the filter; a false return means the order was not in that state.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	SetProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, from []models.OrderStatus, actorID uuid.UUID) (bool, error)
	MarkPaymentPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type mongoOrderRepo struct {
	collection *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{collection: db.Collection("orders")}
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *mongoOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *mongoOrderRepo) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"payment.payment_id": paymentID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *mongoOrderRepo) findSorted(ctx context.Context, filter bson.M) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return r.findSorted(ctx, bson.M{"buyer.id": buyerID})
}

func (r *mongoOrderRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	return r.findSorted(ctx, bson.M{"seller.id": sellerID})
}

func (r *mongoOrderRepo) SetProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.OrderStatusPending},
		bson.M{"$set": bson.M{
			"status":     models.OrderStatusProcessing,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Complete carries the compound precondition: the order must be processing
// AND its payment must already be paid. Completion can never outrun the
// payment confirmation.
func (r *mongoOrderRepo) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":            id,
			"status":         models.OrderStatusProcessing,
			"payment.status": models.OrderPaymentPaid,
		},
		bson.M{"$set": bson.M{
			"status":       models.OrderStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoOrderRepo) Cancel(ctx context.Context, id uuid.UUID, from []models.OrderStatus, actorID uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{
			"status":       models.OrderStatusCancelled,
			"cancelled_by": actorID,
			"cancelled_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *mongoOrderRepo) MarkPaymentPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "payment.status": models.OrderPaymentPending},
		bson.M{"$set": bson.M{
			"payment.status": models.OrderPaymentPaid,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
