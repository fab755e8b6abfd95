package models

import "time"

// Bookmark represents a saved reference to a post, owned by a user
type Bookmark struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"-" db:"user_id"`
	PostID      int64     `json:"postId" db:"post_id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	PostType    string    `json:"postType" db:"post_type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
