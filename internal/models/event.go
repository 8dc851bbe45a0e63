package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type EventCategory string

const (
	CategoryMusic      EventCategory = "music"
	CategoryFestival   EventCategory = "festival"
	CategoryArts       EventCategory = "arts"
	CategorySports     EventCategory = "sports"
	CategoryNightlife  EventCategory = "nightlife"
	CategoryConference EventCategory = "conference"
	CategoryCommunity  EventCategory = "community"
	CategoryOther      EventCategory = "other"
)

// Cities the platform currently operates in.
var EventCities = []string{
	"Accra", "Kumasi", "Takoradi", "Tamale", "Cape Coast", "Tema", "Ho", "Sunyani",
}

// TicketsExpiryGrace is how long past an event's nominal end a ticket stays
// valid for gate scanning.
const TicketsExpiryGrace = 24 * time.Hour

type Event struct {
	ID          uuid.UUID     `bson:"id" json:"id"`
	OrganizerID uuid.UUID     `bson:"organizer_id" json:"organizer_id"`
	Title       string        `bson:"title" json:"title" validate:"required,min=3,max=160"`
	Description string        `bson:"description" json:"description,omitempty"`
	Category    EventCategory `bson:"category" json:"category" validate:"required,oneof=music festival arts sports nightlife conference community other"`
	Date        string        `bson:"date" json:"date" validate:"required"` // YYYY-MM-DD
	StartTime   string        `bson:"start_time" json:"start_time,omitempty"`
	EndTime     string        `bson:"end_time" json:"end_time,omitempty"` // HH:MM (24h); empty = end of day
	Venue       string        `bson:"venue" json:"venue" validate:"required"`
	Location    string        `bson:"location" json:"location" validate:"required"`
	Capacity    int           `bson:"capacity" json:"capacity" validate:"gte=0"`
	Attendees   int           `bson:"attendees" json:"attendees"`
	Price       float64       `bson:"price" json:"price" validate:"gte=0"`
	Currency    Currency      `bson:"currency" json:"currency"`
	Status      EventStatus   `bson:"status" json:"status"`
	Rating      float64       `bson:"rating" json:"rating"` // derived review average, 0-5
	Images      []string      `bson:"images,omitempty" json:"images,omitempty"`
	Slug        string        `bson:"slug" json:"slug,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

func (e *Event) ValidateEvent() error {
	if err := Validate.Struct(e); err != nil {
		return NewValidationError("invalid event data: %v", err)
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return NewValidationError("event date must be YYYY-MM-DD, got %q", e.Date)
	}
	if !isKnownCity(e.Location) {
		return NewValidationError("unsupported city: %q", e.Location)
	}
	return nil
}

func isKnownCity(city string) bool {
	for _, c := range EventCities {
		if c == city {
			return true
		}
	}
	return false
}

func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// RemainingCapacity is advisory only. Purchase must go through the
// conditional capacity reservation in the repo, never read-then-write.
func (e *Event) RemainingCapacity() int {
	left := e.Capacity - e.Attendees
	if left < 0 {
		return 0
	}
	return left
}

// NominalEnd is the event's end timestamp. When no end time is set the event
// is treated as running to the end of its day.
func (e *Event) NominalEnd() (time.Time, error) {
	day, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, NewValidationError("event date must be YYYY-MM-DD, got %q", e.Date)
	}
	if e.EndTime != "" {
		if clock, err := time.Parse("15:04", e.EndTime); err == nil {
			return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
		}
	}
	// End-of-day cutoff.
	return day.Add(24*time.Hour - time.Second), nil
}

// TicketExpiry is the nominal end plus the fixed grace window. Computed once
// at ticket creation and stored, never recomputed.
func (e *Event) TicketExpiry() (time.Time, error) {
	end, err := e.NominalEnd()
	if err != nil {
		return time.Time{}, err
	}
	return end.Add(TicketsExpiryGrace), nil
}
