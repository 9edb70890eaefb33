package store

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/waitingroom-api/internal/models"
)

// MongoDoctorStore implements DoctorRegistry on a MongoDB collection.
type MongoDoctorStore struct {
	collection *mongo.Collection
}

func NewDoctorStore(db *mongo.Database) *MongoDoctorStore {
	return &MongoDoctorStore{collection: db.Collection(doctorsCollection)}
}

// GetOrCreate fetches the doctor with the trimmed name, creating the row
// if it does not exist. The upsert plus the unique name index make this a
// single atomic create-if-absent; two concurrent calls get the same row.
func (s *MongoDoctorStore) GetOrCreate(ctx context.Context, name string) (*models.Doctor, error) {
	name = strings.TrimSpace(name)

	filter := bson.M{"name": name}
	update := bson.M{"$setOnInsert": bson.M{
		"name":     name,
		"waiting":  int64(0),
		"verified": int64(0),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doctor models.Doctor
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doctor)
	if err != nil {
		// A racing upsert can still trip the unique index; the row exists
		// now, so retry the plain lookup.
		if mongo.IsDuplicateKeyError(err) {
			return s.GetByName(ctx, name)
		}
		return nil, err
	}
	return &doctor, nil
}

func (s *MongoDoctorStore) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	name = strings.TrimSpace(name)

	var doctor models.Doctor
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&doctor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *MongoDoctorStore) List(ctx context.Context) ([]models.Doctor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = make([]models.Doctor, 0)
	}
	return doctors, nil
}

func (s *MongoDoctorStore) IncrementWaiting(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"waiting": 1}},
	)
	return err
}

func (s *MongoDoctorStore) DecrementWaiting(ctx context.Context, id primitive.ObjectID) error {
	// Pipeline update so the floor at zero is applied atomically.
	update := bson.A{bson.M{"$set": bson.M{
		"waiting": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$waiting", 1}}}},
	}}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// MarkVerified moves both counters in one atomic update: waiting down
// (never below zero), verified up. Splitting these into two writes would
// open a window where the counters disagree.
func (s *MongoDoctorStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	update := bson.A{bson.M{"$set": bson.M{
		"waiting":  bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$waiting", 1}}}},
		"verified": bson.M{"$add": bson.A{"$verified", 1}},
	}}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
