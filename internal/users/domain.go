package users

import "time"

// Profile is the public projection of a user account: no email, no
// credential material.
type Profile struct {
	ID       string    `json:"_id"`
	FullName string    `json:"fullName"`
	Bio      string    `json:"bio"`
	Photo    *string   `json:"photo"`
	Joined   time.Time `json:"joined"`
}
