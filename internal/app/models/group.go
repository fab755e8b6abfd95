package models

import "time"

// Group represents a chat group with explicit membership
type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsPrivate   bool      `json:"isPrivate" db:"is_private"`
	AdminID     int64     `json:"adminId" db:"admin_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Last-message summary cached on the group row
	LastMessageText     *string    `json:"lastMessage,omitempty" db:"last_message_text"`
	LastMessageSenderID *int64     `json:"lastMessageSenderId,omitempty" db:"last_message_sender_id"`
	LastMessageAt       *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`

	// MemberIDs is the group's member set, fetched together with the row
	MemberIDs []int64 `json:"-"`
}

// IsMember reports whether a user id is present in the member set
func (g *Group) IsMember(userID int64) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
