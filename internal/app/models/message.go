package models

import "time"

// MessageType represents the type of group message
type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeFile MessageType = "file"
)

// Message represents a message in a group chat
type Message struct {
	ID          int64       `json:"id" db:"id"`
	GroupID     int64       `json:"groupId" db:"group_id"`
	SenderID    int64       `json:"senderId" db:"sender_id"`
	MessageType MessageType `json:"type" db:"message_type"`
	Text        string      `json:"text" db:"text"`
	FileURL     *string     `json:"fileUrl,omitempty" db:"file_url"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`

	// Related entities
	Sender *User `json:"sender,omitempty"`
}
