package dto

import "time"

// CreatePostRequest is the body of POST /communities/:id/posts
type CreatePostRequest struct {
	Text   string   `json:"text" binding:"required"`
	Images []string `json:"images"`
}

// PostResponse is a post annotated with its community and the calling
// user's like state
type PostResponse struct {
	ID            int64     `json:"id"`
	CommunityID   int64     `json:"communityId"`
	CommunityName string    `json:"communityName"`
	AuthorID      int64     `json:"authorId"`
	Text          string    `json:"text"`
	Images        []string  `json:"images"`
	Likes         int       `json:"likes"`
	IsLiked       bool      `json:"isLiked"`
	Comments      int64     `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LikeResponse echoes the resulting like state after a toggle
type LikeResponse struct {
	Message string `json:"message"`
	IsLiked bool   `json:"isLiked"`
}

// CreateCommentRequest is the body of POST /posts/:id/comments
type CreateCommentRequest struct {
	CommunityID int64  `json:"communityId" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// CommentResponse is a comment with its author summary
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
