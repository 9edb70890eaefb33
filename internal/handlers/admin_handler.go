package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/waitingroom-api/internal/store"
)

// queueEntry is what the console sees of a waiting registration. The
// embedding itself never leaves the server.
type queueEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListDoctors returns every doctor with their waiting/verified counters.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctors"})
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// GetDoctorQueue lists the pending registrations for one doctor, oldest
// first, without the stored embeddings.
func (h *Handler) GetDoctorQueue(c *gin.Context) {
	doctorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
		return
	}

	registrations, err := h.Pool.ForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve queue"})
		return
	}

	entries := make([]queueEntry, 0, len(registrations))
	for _, registration := range registrations {
		entries = append(entries, queueEntry{
			ID:        registration.ID.Hex(),
			Email:     registration.Email,
			CreatedAt: registration.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteRegistration drops a stale registration from the queue (someone
// who registered and left). The waiting counter follows the deletion,
// and only for the caller whose delete actually removed the row.
func (h *Handler) DeleteRegistration(c *gin.Context) {
	registrationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	registration, err := h.Pool.Get(c.Request.Context(), registrationID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up registration"})
		return
	}

	removed, err := h.Pool.RemoveIfPresent(c.Request.Context(), registrationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete registration"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}

	if err := h.Doctors.DecrementWaiting(c.Request.Context(), registration.DoctorID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration deleted but counter update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted successfully"})
}
