package auth

import "time"

// User represents a registered account. PasswordHash never leaves the
// package; responses are built from PublicProfile.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Photo        string
	Bio          string
	Joined       time.Time
}

// PublicProfile is the client-facing projection of a User.
type PublicProfile struct {
	ID       string    `json:"_id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Bio      string    `json:"bio"`
	Photo    *string   `json:"photo"`
	Joined   time.Time `json:"joined"`
}

// Public projects the user into its client-facing shape.
func (u *User) Public() PublicProfile {
	var photo *string
	if u.Photo != "" {
		photo = &u.Photo
	}
	return PublicProfile{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Bio:      u.Bio,
		Photo:    photo,
		Joined:   u.Joined,
	}
}
