package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAttendee  = "attendee"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

type User struct {
	ID          uuid.UUID `bson:"id" json:"id"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	Password    string    `bson:"-" json:"password,omitempty" validate:"required,min=8"`
	Username    string    `bson:"username" json:"username" validate:"required,min=3,max=32"`
	FullName    string    `bson:"full_name" json:"full_name,omitempty"`
	Role        string    `bson:"role" json:"role,omitempty"`
	PhoneNumber string    `bson:"phone_number" json:"phone_number,omitempty"`
	AvatarURL   string    `bson:"avatar_url" json:"avatar_url,omitempty"`
	Bio         string    `bson:"bio" json:"bio,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
