package models

import "time"

// Booking links one account to one event. Bookings are append-only.
type Booking struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	EventID     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_booking_user_event" json:"event_id"`
	UserID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_booking_user_event;index" json:"user_id"`
	BookingDate time.Time `gorm:"not null" json:"booking_date"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
