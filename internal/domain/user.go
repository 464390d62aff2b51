package domain

import "time"

// HomeLocation is the user's home used as the origin for distance statistics.
type HomeLocation struct {
	Address string
	Coord   Coordinate
}

// User is the domain representation of a user profile.
type User struct {
	ID      UserID
	Subject SubjectID

	DisplayName string
	Email       string
	Home        *HomeLocation

	CreatedAt time.Time
	UpdatedAt time.Time
}
