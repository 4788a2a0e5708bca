package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/repository"
	"github.com/google/uuid"
)

// DefaultPageSize is the number of events per page when a query sets none.
const DefaultPageSize = 6

// MaxPageSize is the largest page the HTTP API accepts.
const MaxPageSize = 100

// CategoryAll disables the category filter in EventQuery.
const CategoryAll = "All"

var categories = []string{
	"Conference", "Music", "Business", "Technology", "Wellness",
	"Food", "Sports", "Art", "Entertainment", "Other",
}

type EventQuery struct {
	Query    string
	Category string
	Page     int
	PerPage  int
}

type EventPage struct {
	Events     []models.Event
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

type CatalogService interface {
	AddEvent(ctx context.Context, actor *models.Session, in models.EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, actor *models.Session, id string, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, actor *models.Session, id string) error
	Import(ctx context.Context, event models.Event) (*models.Event, error)

	BookEvent(ctx context.Context, actor *models.Session, eventID string) (*models.Booking, error)
	IsBooked(ctx context.Context, eventID, accountID string) (bool, error)

	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	SearchEvents(ctx context.Context, q EventQuery) (*EventPage, error)
	BookingsForAccount(ctx context.Context, accountID string) ([]models.Booking, error)
	EventsForAccount(ctx context.Context, accountID string) ([]models.Event, error)
	FeaturedEvents(ctx context.Context) ([]models.Event, error)
	EventsByTag(ctx context.Context, tag string) ([]models.Event, error)
	AllTags(ctx context.Context) ([]string, error)
	Categories() []string
}

type catalogService struct {
	// mu serializes writers so check-then-write sequences stay atomic
	mu       sync.Mutex
	events   repository.EventRepository
	bookings repository.BookingRepository
	notifier Notifier
	outbox   outbox
	now      func() time.Time
}

func NewCatalogService(events repository.EventRepository, bookings repository.BookingRepository, notifier Notifier) CatalogService {
	return &catalogService{
		events:   events,
		bookings: bookings,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *catalogService) AddEvent(ctx context.Context, actor *models.Session, in models.EventInput) (*models.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &models.Event{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Date:        in.Date,
		Venue:       strings.TrimSpace(in.Venue),
		Price:       in.Price,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Tags:        normalizeTags(in.Tags),
		Featured:    in.Featured,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.outbox.add(TopicEventCreated, event)
	return event, nil
}

func (s *catalogService) UpdateEvent(ctx context.Context, actor *models.Session, id string, patch models.EventPatch) (*models.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	event, err := s.findEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		patch.Tags = &tags
	}
	patch.Apply(event)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now().UTC()

	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.outbox.add(TopicEventUpdated, event)
	return event, nil
}

// DeleteEvent refuses to remove an event that still has bookings.
func (s *catalogService) DeleteEvent(ctx context.Context, actor *models.Session, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlock()

	if _, err := s.findEvent(ctx, id); err != nil {
		return err
	}

	n, err := s.bookings.CountByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return ErrHasDependentBookings
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.outbox.add(TopicEventDeleted, map[string]string{"id": id})
	return nil
}

// Import inserts or replaces an event received from the catalog feed.
func (s *catalogService) Import(ctx context.Context, event models.Event) (*models.Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Tags = normalizeTags(event.Tags)
	if err := validateEvent(&event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.unlock()

	now := s.now().UTC()
	topic := TopicEventCreated
	existing, err := s.events.FindByID(ctx, event.ID)
	switch {
	case err == nil:
		topic = TopicEventUpdated
		event.CreatedAt = existing.CreatedAt
		if event.CreatedBy == "" {
			event.CreatedBy = existing.CreatedBy
		}
	case errors.Is(err, repository.ErrNotFound):
		event.CreatedAt = now
	default:
		return nil, fmt.Errorf("find event: %w", err)
	}
	event.UpdatedAt = now

	if err := s.events.Upsert(ctx, &event); err != nil {
		return nil, fmt.Errorf("upsert event: %w", err)
	}
	s.outbox.add(topic, &event)
	return &event, nil
}

// BookEvent records a booking for the actor. A repeated booking returns the
// existing record together with ErrAlreadyBooked.
func (s *catalogService) BookEvent(ctx context.Context, actor *models.Session, eventID string) (*models.Booking, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.unlock()

	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}

	existing, err := s.bookings.FindByUserAndEvent(ctx, actor.ID, eventID)
	if err == nil {
		return existing, ErrAlreadyBooked
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find booking: %w", err)
	}

	booking := &models.Booking{
		ID:          uuid.NewString(),
		EventID:     eventID,
		UserID:      actor.ID,
		BookingDate: s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			existing, ferr := s.bookings.FindByUserAndEvent(ctx, actor.ID, eventID)
			if ferr != nil {
				return nil, fmt.Errorf("find booking: %w", ferr)
			}
			return existing, ErrAlreadyBooked
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.outbox.add(TopicBookingCreated, booking)
	return booking, nil
}

func (s *catalogService) IsBooked(ctx context.Context, eventID, accountID string) (bool, error) {
	if accountID == "" {
		return false, nil
	}
	_, err := s.bookings.FindByUserAndEvent(ctx, accountID, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *catalogService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.findEvent(ctx, id)
}

func (s *catalogService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.events.FindAll(ctx)
}

// SearchEvents filters by a case-insensitive substring of name or
// description and by category, then returns the requested 1-based page.
func (s *catalogService) SearchEvents(ctx context.Context, q EventQuery) (*EventPage, error) {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Query))
	category := strings.TrimSpace(q.Category)
	matched := make([]models.Event, 0, len(all))
	for _, e := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			continue
		}
		if category != "" && category != CategoryAll && e.Category != category {
			continue
		}
		matched = append(matched, e)
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	// compare before multiplying so a huge page cannot overflow
	start := len(matched)
	if page-1 <= len(matched)/perPage {
		start = min((page-1)*perPage, len(matched))
	}
	end := start + min(perPage, len(matched)-start)

	totalPages := 0
	if len(matched) > 0 {
		totalPages = (len(matched)-1)/perPage + 1
	}

	return &EventPage{
		Events:     matched[start:end],
		Total:      len(matched),
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func (s *catalogService) BookingsForAccount(ctx context.Context, accountID string) ([]models.Booking, error) {
	if accountID == "" {
		return []models.Booking{}, nil
	}
	bookings, err := s.bookings.FindByUser(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// EventsForAccount returns the booked events in catalog order.
func (s *catalogService) EventsForAccount(ctx context.Context, accountID string) ([]models.Event, error) {
	bookings, err := s.BookingsForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []models.Event{}, nil
	}

	booked := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		booked[b.EventID] = struct{}{}
	}
	return s.filterEvents(ctx, func(e *models.Event) bool {
		_, ok := booked[e.ID]
		return ok
	})
}

func (s *catalogService) FeaturedEvents(ctx context.Context) ([]models.Event, error) {
	return s.filterEvents(ctx, func(e *models.Event) bool { return e.Featured })
}

func (s *catalogService) EventsByTag(ctx context.Context, tag string) ([]models.Event, error) {
	return s.filterEvents(ctx, func(e *models.Event) bool { return e.HasTag(tag) })
}

// AllTags returns every distinct tag in first-seen order.
func (s *catalogService) AllTags(ctx context.Context) ([]string, error) {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := []string{}
	for _, e := range all {
		for _, t := range e.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (s *catalogService) Categories() []string {
	return append([]string(nil), categories...)
}

func (s *catalogService) filterEvents(ctx context.Context, keep func(*models.Event) bool) ([]models.Event, error) {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Event{}
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *catalogService) findEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func requireAdmin(actor *models.Session) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func validateEvent(e *models.Event) error {
	switch {
	case len([]rune(strings.TrimSpace(e.Name))) < 3:
		return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidEvent)
	case len([]rune(strings.TrimSpace(e.Description))) < 10:
		return fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidEvent)
	case strings.TrimSpace(e.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidEvent)
	case len([]rune(strings.TrimSpace(e.Venue))) < 3:
		return fmt.Errorf("%w: venue must be at least 3 characters", ErrInvalidEvent)
	case math.IsNaN(e.Price) || e.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidEvent)
	case strings.TrimSpace(e.ImageURL) == "":
		return fmt.Errorf("%w: image is required", ErrInvalidEvent)
	case e.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	return nil
}

// normalizeTags trims tags and drops empties and duplicates.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// unlock releases s.mu and then delivers the notifications queued under it.
func (s *catalogService) unlock() {
	batch := s.outbox.take()
	s.mu.Unlock()
	flush(s.notifier, batch)
}
