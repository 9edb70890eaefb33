package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/waitingroom-api/internal/models"
)

// MongoWaitingPool implements WaitingPool on a MongoDB collection.
type MongoWaitingPool struct {
	collection *mongo.Collection
}

func NewWaitingPool(db *mongo.Database) *MongoWaitingPool {
	return &MongoWaitingPool{collection: db.Collection(registrationsCollection)}
}

func (p *MongoWaitingPool) Enqueue(ctx context.Context, doctorID primitive.ObjectID, embedding []float64, email string) (primitive.ObjectID, error) {
	registration := models.WaitingRegistration{
		ID:        primitive.NewObjectID(),
		DoctorID:  doctorID,
		Embedding: embedding,
		Email:     email,
		Status:    models.StatusWaiting,
		CreatedAt: time.Now().UTC(),
	}

	_, err := p.collection.InsertOne(ctx, registration)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return registration.ID, nil
}

func (p *MongoWaitingPool) ForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.WaitingRegistration, error) {
	filter := bson.M{"doctorId": doctorID, "status": models.StatusWaiting}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := p.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var registrations []models.WaitingRegistration
	if err := cursor.All(ctx, &registrations); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (p *MongoWaitingPool) Get(ctx context.Context, id primitive.ObjectID) (*models.WaitingRegistration, error) {
	var registration models.WaitingRegistration
	err := p.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&registration)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// RemoveIfPresent deletes the registration if it still exists. The
// deleted count tells racing verify calls apart: exactly one of them
// observes the deletion and proceeds to touch counters.
func (p *MongoWaitingPool) RemoveIfPresent(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := p.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}
