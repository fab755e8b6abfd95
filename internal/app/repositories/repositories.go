package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CommunityRepository    *CommunityRepository
	PostRepository         *PostRepository
	GroupRepository        *GroupRepository
	MessageRepository      *MessageRepository
	NotificationRepository *NotificationRepository
	BookmarkRepository     *BookmarkRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		CommunityRepository:    NewCommunityRepository(db),
		PostRepository:         NewPostRepository(db),
		GroupRepository:        NewGroupRepository(db),
		MessageRepository:      NewMessageRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		BookmarkRepository:     NewBookmarkRepository(db),
	}
}
