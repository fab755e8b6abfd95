package models

import "time"

// User represents a registered profile. The id is the stable identity
// minted at first OTP redemption and never changes afterwards.
type User struct {
	ID              int64     `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name" db:"name"`
	RegNo           string    `json:"regNo" db:"reg_no"`
	Department      string    `json:"department" db:"department"`
	Year            int       `json:"year" db:"year"`
	PhotoURL        string    `json:"photoURL" db:"photo_url"`
	ProfileComplete bool      `json:"profileComplete" db:"profile_complete"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
