// Package mock provides in-memory implementations of the store
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/waitingroom-api/internal/models"
	"github.com/harentsoaR/waitingroom-api/internal/store"
)

// MockDoctorStore is an in-memory store.DoctorRegistry.
type MockDoctorStore struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor

	// Error injection
	GetOrCreateError error
	GetByNameError   error
	CounterError     error
}

func NewMockDoctorStore() *MockDoctorStore {
	return &MockDoctorStore{doctors: make(map[string]*models.Doctor)}
}

func (m *MockDoctorStore) GetOrCreate(ctx context.Context, name string) (*models.Doctor, error) {
	if m.GetOrCreateError != nil {
		return nil, m.GetOrCreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if doctor, ok := m.doctors[name]; ok {
		copied := *doctor
		return &copied, nil
	}
	doctor := &models.Doctor{ID: primitive.NewObjectID(), Name: name}
	m.doctors[name] = doctor
	copied := *doctor
	return &copied, nil
}

func (m *MockDoctorStore) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	if m.GetByNameError != nil {
		return nil, m.GetByNameError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doctor, ok := m.doctors[strings.TrimSpace(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *doctor
	return &copied, nil
}

func (m *MockDoctorStore) List(ctx context.Context) ([]models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doctors := make([]models.Doctor, 0, len(m.doctors))
	for _, doctor := range m.doctors {
		doctors = append(doctors, *doctor)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].Name < doctors[j].Name })
	return doctors, nil
}

func (m *MockDoctorStore) IncrementWaiting(ctx context.Context, id primitive.ObjectID) error {
	if m.CounterError != nil {
		return m.CounterError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if doctor := m.byID(id); doctor != nil {
		doctor.WaitingCount++
	}
	return nil
}

func (m *MockDoctorStore) DecrementWaiting(ctx context.Context, id primitive.ObjectID) error {
	if m.CounterError != nil {
		return m.CounterError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if doctor := m.byID(id); doctor != nil && doctor.WaitingCount > 0 {
		doctor.WaitingCount--
	}
	return nil
}

func (m *MockDoctorStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	if m.CounterError != nil {
		return m.CounterError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if doctor := m.byID(id); doctor != nil {
		if doctor.WaitingCount > 0 {
			doctor.WaitingCount--
		}
		doctor.VerifiedCount++
	}
	return nil
}

// Count returns the number of doctor rows, for asserting that lookups
// created nothing.
func (m *MockDoctorStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.doctors)
}

func (m *MockDoctorStore) byID(id primitive.ObjectID) *models.Doctor {
	for _, doctor := range m.doctors {
		if doctor.ID == id {
			return doctor
		}
	}
	return nil
}

// MockWaitingPool is an in-memory store.WaitingPool.
type MockWaitingPool struct {
	mu            sync.Mutex
	registrations map[primitive.ObjectID]*models.WaitingRegistration
	seq           int
	order         map[primitive.ObjectID]int

	// Error injection
	EnqueueError   error
	ForDoctorError error
	RemoveError    error
	// ForceRemoveMiss makes RemoveIfPresent report false without deleting,
	// simulating a lost race against a concurrent verify.
	ForceRemoveMiss bool
}

func NewMockWaitingPool() *MockWaitingPool {
	return &MockWaitingPool{
		registrations: make(map[primitive.ObjectID]*models.WaitingRegistration),
		order:         make(map[primitive.ObjectID]int),
	}
}

func (m *MockWaitingPool) Enqueue(ctx context.Context, doctorID primitive.ObjectID, embedding []float64, email string) (primitive.ObjectID, error) {
	if m.EnqueueError != nil {
		return primitive.NilObjectID, m.EnqueueError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	registration := &models.WaitingRegistration{
		ID:        primitive.NewObjectID(),
		DoctorID:  doctorID,
		Embedding: embedding,
		Email:     email,
		Status:    models.StatusWaiting,
		CreatedAt: time.Now().UTC(),
	}
	m.registrations[registration.ID] = registration
	m.order[registration.ID] = m.seq
	m.seq++
	return registration.ID, nil
}

// ForDoctor enumerates oldest-first, with insertion order breaking
// creation-time ties so tests get a fixed order.
func (m *MockWaitingPool) ForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.WaitingRegistration, error) {
	if m.ForDoctorError != nil {
		return nil, m.ForDoctorError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var registrations []models.WaitingRegistration
	for _, registration := range m.registrations {
		if registration.DoctorID == doctorID {
			registrations = append(registrations, *registration)
		}
	}
	sort.Slice(registrations, func(i, j int) bool {
		a, b := registrations[i], registrations[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return m.order[a.ID] < m.order[b.ID]
	})
	return registrations, nil
}

func (m *MockWaitingPool) Get(ctx context.Context, id primitive.ObjectID) (*models.WaitingRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	registration, ok := m.registrations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *registration
	return &copied, nil
}

func (m *MockWaitingPool) RemoveIfPresent(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if m.RemoveError != nil {
		return false, m.RemoveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForceRemoveMiss {
		return false, nil
	}
	if _, ok := m.registrations[id]; !ok {
		return false, nil
	}
	delete(m.registrations, id)
	return true, nil
}

// Len returns the number of pending registrations.
func (m *MockWaitingPool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registrations)
}
