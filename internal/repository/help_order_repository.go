package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arturffsantos/gympoint/internal/models"
)

const helpOrdersCollection = "help_orders"

// HelpOrderRepository stores help-order threads in MongoDB.
type HelpOrderRepository struct {
	collection *mongo.Collection
}

// NewHelpOrderRepository constructs the repository.
func NewHelpOrderRepository(db *mongo.Database) *HelpOrderRepository {
	return &HelpOrderRepository{collection: db.Collection(helpOrdersCollection)}
}

// ListByStudent returns up to limit questions from one student, newest first.
func (r *HelpOrderRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.HelpOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.HelpOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListUnanswered returns up to limit open questions, newest first.
func (r *HelpOrderRepository) ListUnanswered(ctx context.Context, limit int) ([]models.HelpOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"answer": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.HelpOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts a new question document.
func (r *HelpOrderRepository) Create(ctx context.Context, order *models.HelpOrder) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// Answer sets the answer on a question and returns the updated document.
// Returns mongo.ErrNoDocuments when the id is unknown.
func (r *HelpOrderRepository) Answer(ctx context.Context, id primitive.ObjectID, answer string) (*models.HelpOrder, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"answer": answer, "answer_at": now, "updated_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.HelpOrder
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}
