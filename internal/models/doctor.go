package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor is one waiting-room queue. Counters are only ever mutated by the
// queue coordinator; the name is unique across the collection.
type Doctor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	WaitingCount  int64              `bson:"waiting" json:"waitingCount"`
	VerifiedCount int64              `bson:"verified" json:"verifiedCount"`
}
