package model

import "time"

type Player struct {
	ID              string         `json:"player_id"`
	Name            string         `json:"name"`
	PhoneNumber     string         `json:"phone_number"`
	CollegeName     string         `json:"college_name"`
	SportName       string         `json:"sport_name"`
	Email           *string        `json:"email,omitempty"`
	IDCardPicture   *string        `json:"id_card_picture,omitempty"`
	TeamID          string         `json:"team_id"`
	AccommodationID *string        `json:"accommodation_id,omitempty"`
	Accommodation   *Accommodation `json:"accommodation,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// PlayerInput is the caller supplied part of a player. Identifiers and the
// team link are assigned during registration.
type PlayerInput struct {
	Name              string            `json:"name" validate:"required"`
	PhoneNumber       string            `json:"phone_number" validate:"required,min=7,max=20"`
	CollegeName       string            `json:"college_name"`
	SportName         string            `json:"sport_name" validate:"required"`
	Email             *string           `json:"email,omitempty" validate:"omitempty,email"`
	IDCardPicture     *string           `json:"id_card_picture,omitempty" validate:"omitempty,url"`
	AccommodationType AccommodationType `json:"accommodation_type,omitempty" validate:"omitempty,accommodation_type"`
}
