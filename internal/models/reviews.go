package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	EventID   uuid.UUID          `bson:"event_id" json:"event_id"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r *EventReview) BeforeCreate() error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	return nil
}

func (r EventReview) ValidateReview() error {
	if r.Rating < 1 || r.Rating > 5 {
		return NewValidationError("rating must be between 1 and 5")
	}
	if r.UserID == uuid.Nil {
		return NewValidationError("invalid user ID")
	}
	if r.EventID == uuid.Nil {
		return NewValidationError("invalid event ID")
	}
	return nil
}

func (r *EventReview) Sanitize() {
	r.Title = helpers.StringTrim(r.Title)
	r.Comment = helpers.StringTrim(r.Comment)

	if r.Rating < 1 {
		r.Rating = 1
	} else if r.Rating > 5 {
		r.Rating = 5
	}
}
