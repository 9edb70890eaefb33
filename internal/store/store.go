// Package store holds the MongoDB-backed doctor registry and waiting
// pool. Handlers and the queue coordinator depend on the interfaces so
// tests can swap in the in-memory mocks.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/waitingroom-api/internal/models"
)

// ErrNotFound is returned by lookups that matched no document.
var ErrNotFound = errors.New("not found")

// DoctorRegistry manages doctor rows and their counters. Names are
// trimmed before every lookup; the collection carries a unique index on
// the name so concurrent GetOrCreate calls collapse onto one row.
type DoctorRegistry interface {
	GetOrCreate(ctx context.Context, name string) (*models.Doctor, error)
	GetByName(ctx context.Context, name string) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)

	// IncrementWaiting bumps the waiting counter by one.
	IncrementWaiting(ctx context.Context, id primitive.ObjectID) error
	// DecrementWaiting lowers the waiting counter by one, floored at zero.
	DecrementWaiting(ctx context.Context, id primitive.ObjectID) error
	// MarkVerified records one successful match: waiting goes down by one
	// (floored at zero) and verified up by one, in a single atomic update.
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
}

// WaitingPool is the durable collection of pending registrations.
type WaitingPool interface {
	Enqueue(ctx context.Context, doctorID primitive.ObjectID, embedding []float64, email string) (primitive.ObjectID, error)
	// ForDoctor returns all pending registrations for a doctor, oldest
	// first. Sorting by creation time keeps the enumeration order
	// deterministic rather than whatever the store happens to report.
	ForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.WaitingRegistration, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.WaitingRegistration, error)
	// RemoveIfPresent deletes the registration and reports whether a
	// deletion actually happened. Of two racing callers, only one sees
	// true; that caller owns the follow-up counter updates.
	RemoveIfPresent(ctx context.Context, id primitive.ObjectID) (bool, error)
}
