package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusWaiting is the only persisted registration status. A matched
// registration is deleted, not updated; removal is the state transition.
const StatusWaiting = "waiting"

// WaitingRegistration is one person waiting for a doctor, identified by
// their face embedding. The embedding is stored exactly as the extraction
// model produced it and is never renormalized.
type WaitingRegistration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Embedding []float64          `bson:"embedding" json:"-"`
	Email     string             `bson:"email" json:"email"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
