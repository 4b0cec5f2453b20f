package models

import "time"

// Candidate is the staffing profile owning a wallet, linked 1:1 to a user.
type Candidate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
