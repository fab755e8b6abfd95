package dto

import "time"

// CreateGroupRequest is the body of POST /groups
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	IsPrivate   bool   `json:"isPrivate"`
}

// GroupResponse is a group annotated for the calling user
type GroupResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	IsPrivate     bool       `json:"isPrivate"`
	AdminID       int64      `json:"adminId"`
	Members       int        `json:"members"`
	IsMember      bool       `json:"isMember"`
	LastMessage   *string    `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// SendMessageRequest is the body of POST /groups/:id/messages
type SendMessageRequest struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	FileURL string `json:"fileUrl"`
}

// GroupMessageResponse is a chat message with its sender summary
type GroupMessageResponse struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"groupId"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName,omitempty"`
	Type       string    `json:"type"`
	Text       string    `json:"text"`
	FileURL    *string   `json:"fileUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
