package models

import "time"

// Post represents a post inside a community
type Post struct {
	ID           int64     `json:"id" db:"id"`
	CommunityID  int64     `json:"communityId" db:"community_id"`
	AuthorID     int64     `json:"authorId" db:"author_id"`
	Text         string    `json:"text" db:"text"`
	Images       []string  `json:"images" db:"images"`
	CommentCount int64     `json:"comments" db:"comment_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// LikeIDs is the post's like set, fetched together with the row.
	// isLiked and the trending rank are derived from this set.
	LikeIDs []int64 `json:"-"`

	// CommunityName is populated on feed reads for annotation
	CommunityName string `json:"-"`
}

// IsLikedBy reports whether a user id is present in the like set
func (p *Post) IsLikedBy(userID int64) bool {
	for _, id := range p.LikeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment represents a comment under a post. Comments are immutable after
// creation.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
