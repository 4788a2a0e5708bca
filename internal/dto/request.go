package dto

import (
	"time"

	"github.com/Eursukkul/eventhub/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,min=3"`
	Description string    `json:"description" validate:"required,min=10"`
	Category    string    `json:"category" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Venue       string    `json:"venue" validate:"required,min=3"`
	Price       float64   `json:"price" validate:"gte=0"`
	ImageURL    string    `json:"image_url" validate:"required"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
}

func (r CreateEventRequest) ToInput() models.EventInput {
	return models.EventInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
		Venue:       r.Venue,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Featured:    r.Featured,
	}
}

// UpdateEventRequest is a partial update; absent fields stay unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=3"`
	Description *string    `json:"description" validate:"omitempty,min=10"`
	Category    *string    `json:"category" validate:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	Venue       *string    `json:"venue" validate:"omitempty,min=3"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,min=1"`
	Tags        *[]string  `json:"tags"`
	Featured    *bool      `json:"featured"`
}

func (r UpdateEventRequest) ToPatch() models.EventPatch {
	return models.EventPatch{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
		Venue:       r.Venue,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Featured:    r.Featured,
	}
}

type ImageUploadRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}
