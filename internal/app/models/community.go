package models

import "time"

// Community represents an interest community users can follow and post to
type Community struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	AdminID     int64     `json:"adminId" db:"admin_id"`
	PostCount   int64     `json:"postCount" db:"post_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// FollowerIDs is the community's follower set, fetched together with
	// the row. isFollowing is always derived from this set.
	FollowerIDs []int64 `json:"-"`
}

// IsFollower reports whether a user id is present in the follower set
func (c *Community) IsFollower(userID int64) bool {
	for _, id := range c.FollowerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
