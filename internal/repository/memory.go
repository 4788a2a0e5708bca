package repository

import (
	"context"
	"sync"

	"github.com/Eursukkul/eventhub/internal/models"
)

// memoryEventRepository keeps events in insertion order. It backs the
// "memory" catalog store, whose contents are reseeded on every start.
type memoryEventRepository struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{}
}

func (r *memoryEventRepository) indexOf(id string) int {
	for i := range r.events {
		if r.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryEventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(event.ID) >= 0 {
		return ErrDuplicate
	}
	r.events = append(r.events, event.Clone())
	return nil
}

func (r *memoryEventRepository) Update(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(event.ID)
	if i < 0 {
		return ErrNotFound
	}
	r.events[i] = event.Clone()
	return nil
}

func (r *memoryEventRepository) Upsert(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(event.ID); i >= 0 {
		r.events[i] = event.Clone()
		return nil
	}
	r.events = append(r.events, event.Clone())
	return nil
}

func (r *memoryEventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.events = append(r.events[:i], r.events[i+1:]...)
	return nil
}

func (r *memoryEventRepository) FindByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	e := r.events[i].Clone()
	return &e, nil
}

func (r *memoryEventRepository) FindAll(_ context.Context) ([]models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Event, len(r.events))
	for i := range r.events {
		out[i] = r.events[i].Clone()
	}
	return out, nil
}

func (r *memoryEventRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.events)), nil
}

type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []models.Booking
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{}
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.UserID == booking.UserID && b.EventID == booking.EventID {
			return ErrDuplicate
		}
	}
	stored := *booking
	stored.Event = nil
	r.bookings = append(r.bookings, stored)
	return nil
}

func (r *memoryBookingRepository) FindByUserAndEvent(_ context.Context, userID, eventID string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.UserID == userID && b.EventID == eventID {
			found := b
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryBookingRepository) FindByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryBookingRepository) CountByEvent(_ context.Context, eventID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}
