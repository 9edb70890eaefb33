package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/waitingroom-api/internal/face"
	"github.com/harentsoaR/waitingroom-api/internal/queue"
)

type RegisterFaceRequest struct {
	DoctorName string `json:"doctorName" binding:"required"`
	Image      string `json:"image" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

type VerifyFaceRequest struct {
	DoctorName string `json:"doctorName" binding:"required"`
	Image      string `json:"image" binding:"required"`
}

// GetWaitingCount reports how many people are waiting for a doctor.
// Unknown doctors count as zero; no row is created by asking.
func (h *Handler) GetWaitingCount(c *gin.Context) {
	count, err := h.Queue.WaitingCount(c.Request.Context(), c.Param("doctorName"))
	if err != nil {
		respondQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"waiting_count": count})
}

// RegisterFace enrolls a waiting patient: the submitted face becomes a
// pending registration for the doctor.
func (h *Handler) RegisterFace(c *gin.Context) {
	var req RegisterFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	doctorName, err := h.Queue.Register(c.Request.Context(), req.DoctorName, req.Image, req.Email)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"doctorName": doctorName,
		"message":    "Face registered successfully",
	})
}

// VerifyFace matches a live capture against the doctor's waiting pool.
func (h *Handler) VerifyFace(c *gin.Context) {
	var req VerifyFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	similarity, err := h.Queue.Verify(c.Request.Context(), req.DoctorName, req.Image)
	if err != nil {
		respondQueueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"similarity": similarity,
	})
}

// respondQueueError maps coordinator errors to HTTP codes. Every failure
// keeps the explicit status discriminator so clients never have to infer
// an error from missing fields.
func respondQueueError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, queue.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, face.ErrImageDecode):
		status, message = http.StatusBadRequest, "Could not decode image"
	case errors.Is(err, face.ErrNoFaceDetected):
		status, message = http.StatusUnprocessableEntity, "Face not detected"
	case errors.Is(err, queue.ErrDoctorNotFound):
		status, message = http.StatusNotFound, "Doctor not found"
	case errors.Is(err, queue.ErrNoMatch):
		status, message = http.StatusNotFound, "No matching face found"
	case errors.Is(err, face.ErrExtractionTimeout):
		status, message = http.StatusGatewayTimeout, "Face analysis timed out"
	}

	c.JSON(status, gin.H{"status": "error", "message": message})
}
