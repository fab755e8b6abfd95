package dto

import "time"

// CreateCommunityRequest is the body of POST /communities
type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// CommunityResponse is a community annotated for the calling user
type CommunityResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AdminID     int64     `json:"adminId"`
	Followers   int       `json:"followers"`
	PostCount   int64     `json:"postCount"`
	IsFollowing bool      `json:"isFollowing"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowResponse echoes the resulting follow state after a toggle
type FollowResponse struct {
	Message     string `json:"message"`
	IsFollowing bool   `json:"isFollowing"`
}
