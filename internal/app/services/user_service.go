package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/repositories"
)

// UserService defines the interface for profile and bookmark operations
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error
	GetBookmarks(ctx context.Context, userID int64, limit, offset int) ([]*models.Bookmark, error)
	CreateBookmark(ctx context.Context, userID int64, req *dto.CreateBookmarkRequest) (int64, error)
	DeleteBookmark(ctx context.Context, id, userID int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo     *repositories.UserRepository
	bookmarkRepo *repositories.BookmarkRepository
	logger       zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	bookmarkRepo *repositories.BookmarkRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
		logger:       logger,
	}
}

// GetProfile retrieves the owner's view of their profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		RegNo:           user.RegNo,
		Department:      user.Department,
		Year:            user.Year,
		PhotoURL:        user.PhotoURL,
		ProfileComplete: user.ProfileComplete,
		CreatedAt:       user.CreatedAt,
	}, nil
}

// UpdateProfile updates the owner-editable profile fields and marks the
// profile complete
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error {
	user := &models.User{
		ID:         userID,
		Name:       req.Name,
		RegNo:      req.RegNo,
		Department: req.Department,
		Year:       req.Year,
		PhotoURL:   req.PhotoURL,
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return nil
}

// GetBookmarks retrieves the user's saved posts newest-first
func (s *userServiceImpl) GetBookmarks(ctx context.Context, userID int64, limit, offset int) ([]*models.Bookmark, error) {
	return s.bookmarkRepo.GetByUserID(ctx, userID, limit, offset)
}

// CreateBookmark saves a post for the user
func (s *userServiceImpl) CreateBookmark(ctx context.Context, userID int64, req *dto.CreateBookmarkRequest) (int64, error) {
	postType := req.PostType
	if postType == "" {
		postType = "post"
	}

	return s.bookmarkRepo.Create(ctx, &models.Bookmark{
		UserID:      userID,
		PostID:      req.PostID,
		CommunityID: req.CommunityID,
		PostType:    postType,
	})
}

// DeleteBookmark removes one of the user's bookmarks
func (s *userServiceImpl) DeleteBookmark(ctx context.Context, id, userID int64) error {
	return s.bookmarkRepo.Delete(ctx, id, userID)
}
