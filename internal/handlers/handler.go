package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/waitingroom-api/internal/queue"
	"github.com/harentsoaR/waitingroom-api/internal/store"
)

// Handler carries the dependencies every endpoint needs: the queue
// coordinator for the public waiting-room flows, the stores for the
// staff console, and the raw database for staff accounts.
type Handler struct {
	DB        *mongo.Database
	Queue     *queue.Coordinator
	Doctors   store.DoctorRegistry
	Pool      store.WaitingPool
	JWTSecret string
}

func NewHandler(db *mongo.Database, coordinator *queue.Coordinator, doctors store.DoctorRegistry, pool store.WaitingPool, jwtSecret string) *Handler {
	return &Handler{
		DB:        db,
		Queue:     coordinator,
		Doctors:   doctors,
		Pool:      pool,
		JWTSecret: jwtSecret,
	}
}
