package dto

import (
	"time"

	"github.com/Eursukkul/eventhub/internal/media"
	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/service"
)

type SessionResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	StartedAt time.Time   `json:"started_at"`
}

type AuthResponse struct {
	User  SessionResponse `json:"user"`
	Token string          `json:"token"`
}

type RememberedEmailResponse struct {
	Email string `json:"email"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Booked      *bool     `json:"booked,omitempty"`
}

type EventPageResponse struct {
	Events     []EventResponse `json:"events"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	BookingDate time.Time `json:"booking_date"`
}

type ImageUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	ImageURL  string    `json:"image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		StartedAt: s.StartedAt,
	}
}

func ToEventResponse(e *models.Event) EventResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		Venue:       e.Venue,
		Price:       e.Price,
		ImageURL:    e.ImageURL,
		Tags:        tags,
		Featured:    e.Featured,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToEventResponses(events []models.Event) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = ToEventResponse(&events[i])
	}
	return resp
}

func ToEventPageResponse(p *service.EventPage) EventPageResponse {
	return EventPageResponse{
		Events:     ToEventResponses(p.Events),
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		UserID:      b.UserID,
		BookingDate: b.BookingDate,
	}
}

func ToImageUploadResponse(u *media.Upload) ImageUploadResponse {
	return ImageUploadResponse{
		UploadURL: u.UploadURL,
		ImageURL:  u.ImageURL,
		ExpiresAt: u.ExpiresAt,
	}
}
