package models

import "time"

type Event struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"not null;index" json:"category"`
	Date        time.Time `gorm:"not null" json:"date"`
	Venue       string    `gorm:"not null" json:"venue"`
	Price       float64   `gorm:"not null" json:"price"`
	ImageURL    string    `gorm:"not null" json:"image_url"`
	Tags        []string  `gorm:"serializer:json" json:"tags,omitempty"`
	Featured    bool      `gorm:"not null;default:false" json:"featured"`
	CreatedBy   string    `gorm:"type:varchar(64)" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTag reports whether tag is one of the event's tags (exact match).
func (e *Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}

// EventInput carries the fields of a new event.
type EventInput struct {
	Name        string
	Description string
	Category    string
	Date        time.Time
	Venue       string
	Price       float64
	ImageURL    string
	Tags        []string
	Featured    bool
}

// EventPatch is a field-level partial update; nil fields are left unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Category    *string
	Date        *time.Time
	Venue       *string
	Price       *float64
	ImageURL    *string
	Tags        *[]string
	Featured    *bool
}

// Apply merges the set fields of p into e.
func (p EventPatch) Apply(e *Event) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Featured != nil {
		e.Featured = *p.Featured
	}
}
