// Package queue implements the waiting-room engine: face registration,
// face-match verification, and the counter bookkeeping both trigger.
package queue

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/harentsoaR/waitingroom-api/internal/face"
	"github.com/harentsoaR/waitingroom-api/internal/store"
)

// Notifier delivers a best-effort message to a contact address. Failures
// must never propagate back into a verify result.
type Notifier interface {
	Notify(to, subject, body string)
}

// Coordinator orchestrates the register and verify flows across the
// doctor registry, the waiting pool, the embedding extractor and the
// notifier. All dependencies are injected; the coordinator holds no
// connection state of its own.
type Coordinator struct {
	doctors   store.DoctorRegistry
	pool      store.WaitingPool
	extractor face.Extractor
	notifier  Notifier
	threshold float64
}

func NewCoordinator(doctors store.DoctorRegistry, pool store.WaitingPool, extractor face.Extractor, notifier Notifier, threshold float64) *Coordinator {
	return &Coordinator{
		doctors:   doctors,
		pool:      pool,
		extractor: extractor,
		notifier:  notifier,
		threshold: threshold,
	}
}

// Register extracts an embedding from the submitted image and enqueues a
// waiting registration for the doctor, creating the doctor row on first
// reference. Nothing is persisted to the pool when no face is found.
func (c *Coordinator) Register(ctx context.Context, doctorName, image, email string) (string, error) {
	if strings.TrimSpace(doctorName) == "" || image == "" || strings.TrimSpace(email) == "" {
		return "", ErrInvalidInput
	}

	doctor, err := c.doctors.GetOrCreate(ctx, doctorName)
	if err != nil {
		return "", err
	}

	embedding, err := c.extractEmbedding(ctx, image)
	if err != nil {
		return "", err
	}

	if _, err := c.pool.Enqueue(ctx, doctor.ID, embedding, strings.TrimSpace(email)); err != nil {
		return "", err
	}
	if err := c.doctors.IncrementWaiting(ctx, doctor.ID); err != nil {
		return "", err
	}

	return doctor.Name, nil
}

// Verify matches a live capture against the doctor's waiting pool and,
// on a hit, removes the registration, updates the counters and notifies
// the matched person. The guarded removal decides races: if another
// verify already claimed the registration, this call reports no match
// and mutates nothing.
func (c *Coordinator) Verify(ctx context.Context, doctorName, image string) (float64, error) {
	if strings.TrimSpace(doctorName) == "" || image == "" {
		return 0, ErrInvalidInput
	}

	doctor, err := c.doctors.GetByName(ctx, doctorName)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrDoctorNotFound
	}
	if err != nil {
		return 0, err
	}

	probe, err := c.extractEmbedding(ctx, image)
	if err != nil {
		return 0, err
	}

	candidates, err := c.pool.ForDoctor(ctx, doctor.ID)
	if err != nil {
		return 0, err
	}

	match, ok := face.FirstOverThreshold(probe, candidates, c.threshold)
	if !ok {
		return 0, ErrNoMatch
	}

	// The removal must commit before any counter moves or mail goes out.
	// A false here means a concurrent verify won the race.
	removed, err := c.pool.RemoveIfPresent(ctx, match.Registration.ID)
	if err != nil {
		return 0, err
	}
	if !removed {
		return 0, ErrNoMatch
	}

	if err := c.doctors.MarkVerified(ctx, doctor.ID); err != nil {
		// The registration is already gone; the match stands. Log the
		// counter drift instead of failing the verify.
		log.Printf("Failed to update counters for doctor %s: %v", doctor.Name, err)
	}

	c.notifier.Notify(
		match.Registration.Email,
		"Your turn",
		"Please come in, the doctor is ready.",
	)

	return match.Similarity, nil
}

// WaitingCount reports how many people are waiting for the doctor. An
// unknown doctor counts as zero and no row is created.
func (c *Coordinator) WaitingCount(ctx context.Context, doctorName string) (int64, error) {
	doctor, err := c.doctors.GetByName(ctx, doctorName)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doctor.WaitingCount, nil
}

func (c *Coordinator) extractEmbedding(ctx context.Context, image string) ([]float64, error) {
	imageData, err := face.DecodeBase64Image(image)
	if err != nil {
		return nil, err
	}
	return c.extractor.Extract(ctx, imageData)
}
