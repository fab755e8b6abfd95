package dto

import "time"

// UpdateProfileRequest is the body of PUT /users/profile
type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	RegNo      string `json:"regNo" binding:"required"`
	Department string `json:"department" binding:"required"`
	Year       int    `json:"year" binding:"required,min=1,max=6"`
	PhotoURL   string `json:"photoURL"`
}

// ProfileResponse is the owner's view of their profile
type ProfileResponse struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	RegNo           string    `json:"regNo"`
	Department      string    `json:"department"`
	Year            int       `json:"year"`
	PhotoURL        string    `json:"photoURL"`
	ProfileComplete bool      `json:"profileComplete"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateBookmarkRequest is the body of POST /users/bookmarks
type CreateBookmarkRequest struct {
	PostID      int64  `json:"postId" binding:"required"`
	CommunityID int64  `json:"communityId" binding:"required"`
	PostType    string `json:"postType"`
}
