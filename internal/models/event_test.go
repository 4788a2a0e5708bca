package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventPatch_ApplyOnlySetFields(t *testing.T) {
	date := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	e := Event{
		ID:       "1",
		Name:     "Tech Conference 2025",
		Category: "Conference",
		Date:     date,
		Venue:    "Grand Tech Center",
		Price:    299.99,
		Tags:     []string{"technology"},
	}

	price := 10.0
	EventPatch{Price: &price}.Apply(&e)

	assert.Equal(t, 10.0, e.Price)
	assert.Equal(t, "Tech Conference 2025", e.Name)
	assert.Equal(t, "Conference", e.Category)
	assert.Equal(t, date, e.Date)
	assert.Equal(t, []string{"technology"}, e.Tags)
}

func TestEventPatch_TagsAreCopied(t *testing.T) {
	tags := []string{"music", "outdoor"}
	var e Event
	EventPatch{Tags: &tags}.Apply(&e)

	tags[0] = "changed"
	assert.Equal(t, []string{"music", "outdoor"}, e.Tags)
}

func TestEvent_CloneAndHasTag(t *testing.T) {
	e := Event{Tags: []string{"AI", "innovation"}}
	c := e.Clone()
	c.Tags[0] = "other"

	assert.True(t, e.HasTag("AI"))
	assert.False(t, e.HasTag("ai"))
	assert.False(t, c.HasTag("AI"))
}

func TestSession_IsAdmin(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAdmin())
	assert.False(t, (&Session{Role: RoleUser}).IsAdmin())
	assert.True(t, (&Session{Role: RoleAdmin}).IsAdmin())
}
