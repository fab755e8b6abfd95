package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
	"github.com/campuslink/campuslink/internal/pkg/validation"
)

// TrendingWindow is the trailing period used to scope trending ranking
// and filtering.
const TrendingWindow = 24 * time.Hour

// Feed filter modes
const (
	FeedFilterAll       = "all"
	FeedFilterFollowing = "following"
	FeedFilterTrending  = "trending"
)

// PostStore is the slice of the post repository the service consumes;
// the pgx repository satisfies it, tests substitute fakes.
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByCommunityID(ctx context.Context, communityID int64, since *time.Time, limit, offset int) ([]*models.Post, error)
	GetAll(ctx context.Context, since *time.Time) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
	AddLike(ctx context.Context, postID, userID int64) error
	RemoveLike(ctx context.Context, postID, userID int64) error
	IncrementCommentCount(ctx context.Context, postID int64) error
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)
	GetCommentsByPostID(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error)
}

// PostService defines the interface for post, feed and comment operations
type PostService interface {
	GetCommunityPosts(ctx context.Context, userID, communityID int64, limit, offset int) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, userID, communityID int64, req *dto.CreatePostRequest) (int64, error)
	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	GetFeed(ctx context.Context, userID int64, filter string, limit, offset int) ([]dto.PostResponse, error)
	GetTrending(ctx context.Context, userID int64, limit, offset int) ([]dto.PostResponse, error)
	Search(ctx context.Context, userID int64, query string, limit, offset int) ([]dto.PostResponse, error)
	GetComments(ctx context.Context, postID int64, limit, offset int) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, userID, postID int64, req *dto.CreateCommentRequest) (int64, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postRepo            PostStore
	communityRepo       CommunityStore
	notificationService NotificationService
	logger              zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo PostStore,
	communityRepo CommunityStore,
	notificationService NotificationService,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:            postRepo,
		communityRepo:       communityRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

// toPostResponse annotates a post for the calling user. The isLiked flag
// derives from the like set on the fetched row.
func toPostResponse(post *models.Post, userID int64) dto.PostResponse {
	return dto.PostResponse{
		ID:            post.ID,
		CommunityID:   post.CommunityID,
		CommunityName: post.CommunityName,
		AuthorID:      post.AuthorID,
		Text:          post.Text,
		Images:        post.Images,
		Likes:         len(post.LikeIDs),
		IsLiked:       post.IsLikedBy(userID),
		Comments:      post.CommentCount,
		CreatedAt:     post.CreatedAt,
	}
}

func toPostResponses(posts []*models.Post, userID int64) []dto.PostResponse {
	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostResponse(post, userID))
	}
	return responses
}

// GetCommunityPosts lists a community's posts newest-first
func (s *postServiceImpl) GetCommunityPosts(ctx context.Context, userID, communityID int64, limit, offset int) ([]dto.PostResponse, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetByCommunityID(ctx, communityID, nil, limit, offset)
	if err != nil {
		return nil, err
	}

	return toPostResponses(posts, userID), nil
}

// CreatePost creates a post in a community. Only current followers may
// post; the community's denormalized post counter is bumped best-effort
// after the write.
func (s *postServiceImpl) CreatePost(ctx context.Context, userID, communityID int64, req *dto.CreatePostRequest) (int64, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return 0, err
	}

	if !community.IsFollower(userID) {
		return 0, apperrors.ErrNotFollower
	}

	post := &models.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Text:        req.Text,
		Images:      req.Images,
	}
	if post.Images == nil {
		post.Images = []string{}
	}

	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return 0, err
	}

	if err := s.communityRepo.IncrementPostCount(ctx, communityID); err != nil {
		// Transient undercount until the next successful increment
		s.logger.Warn().
			Err(err).
			Int64("communityID", communityID).
			Msg("Failed to increment post count")
	}

	s.logger.Info().
		Int64("postID", id).
		Int64("communityID", communityID).
		Int64("authorID", userID).
		Msg("Post created")

	return id, nil
}

// ToggleLike flips the caller's presence in the post's like set and
// reports the resulting state. Liking someone else's post notifies the
// author.
func (s *postServiceImpl) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.IsLikedBy(userID) {
		if err := s.postRepo.RemoveLike(ctx, postID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.postRepo.AddLike(ctx, postID, userID); err != nil {
		return false, err
	}

	if post.AuthorID != userID {
		s.notificationService.Notify(ctx, post.AuthorID, models.NotificationTypeLike,
			fmt.Sprintf("Someone liked your post in %s", post.CommunityName))
	}

	return true, nil
}

// GetFeed assembles the caller's feed from the communities they follow.
// Posts are fetched per community bounded by the requested limit, merged,
// annotated and paginated over the combined, sorted list. Under trending
// the fetch is windowed and the sort is by like count.
func (s *postServiceImpl) GetFeed(ctx context.Context, userID int64, filter string, limit, offset int) ([]dto.PostResponse, error) {
	switch filter {
	case "", FeedFilterAll, FeedFilterFollowing, FeedFilterTrending:
	default:
		return nil, apperrors.NewValidationError("filter must be one of: all, following, trending")
	}

	followedIDs, err := s.communityRepo.GetFollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followedIDs) == 0 {
		return []dto.PostResponse{}, nil
	}

	var since *time.Time
	if filter == FeedFilterTrending {
		cutoff := time.Now().Add(-TrendingWindow)
		since = &cutoff
	}

	// Each source contributes at most `limit` posts before the merge, so
	// large offsets can skip posts or return short pages.
	combined := []*models.Post{}
	for _, communityID := range followedIDs {
		posts, err := s.postRepo.GetByCommunityID(ctx, communityID, since, limit, 0)
		if err != nil {
			return nil, err
		}
		combined = append(combined, posts...)
	}

	sortPosts(combined, filter == FeedFilterTrending)

	start, end := helpers.PaginateSlice(limit, offset, len(combined))
	return toPostResponses(combined[start:end], userID), nil
}

// GetTrending ranks posts from every community regardless of follow
// state, windowed to the trailing 24 hours and sorted by like count.
func (s *postServiceImpl) GetTrending(ctx context.Context, userID int64, limit, offset int) ([]dto.PostResponse, error) {
	cutoff := time.Now().Add(-TrendingWindow)

	posts, err := s.postRepo.GetAll(ctx, &cutoff)
	if err != nil {
		return nil, err
	}

	sortPosts(posts, true)

	start, end := helpers.PaginateSlice(limit, offset, len(posts))
	return toPostResponses(posts[start:end], userID), nil
}

// Search scans every post in every community for a case-insensitive
// substring match, sorted by recency. Linear by design; acceptable at
// small scale.
func (s *postServiceImpl) Search(ctx context.Context, userID int64, query string, limit, offset int) ([]dto.PostResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < validation.SearchQueryMinLength {
		return nil, apperrors.NewValidationError("search query must be at least 2 characters")
	}

	posts, err := s.postRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []*models.Post{}
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Text), needle) {
			matches = append(matches, post)
		}
	}

	sortPosts(matches, false)

	start, end := helpers.PaginateSlice(limit, offset, len(matches))
	return toPostResponses(matches[start:end], userID), nil
}

// sortPosts orders the combined list: by like-set size under trending,
// by recency otherwise. Ties under trending break by recency.
func sortPosts(posts []*models.Post, byLikes bool) {
	sort.SliceStable(posts, func(i, j int) bool {
		if byLikes {
			if len(posts[i].LikeIDs) != len(posts[j].LikeIDs) {
				return len(posts[i].LikeIDs) > len(posts[j].LikeIDs)
			}
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// GetComments lists a post's comments newest-first
func (s *postServiceImpl) GetComments(ctx context.Context, postID int64, limit, offset int) ([]dto.CommentResponse, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.postRepo.GetCommentsByPostID(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		response := dto.CommentResponse{
			ID:        comment.ID,
			PostID:    comment.PostID,
			AuthorID:  comment.AuthorID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
		if comment.Author != nil {
			response.AuthorName = comment.Author.Name
		}
		responses = append(responses, response)
	}

	return responses, nil
}

// CreateComment creates a comment under a post and bumps the post's
// denormalized comment counter best-effort. Commenting on someone else's
// post notifies the author.
func (s *postServiceImpl) CreateComment(ctx context.Context, userID, postID int64, req *dto.CreateCommentRequest) (int64, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Text:     req.Text,
	}

	id, err := s.postRepo.CreateComment(ctx, comment)
	if err != nil {
		return 0, err
	}

	if err := s.postRepo.IncrementCommentCount(ctx, postID); err != nil {
		// Transient undercount until the next successful increment
		s.logger.Warn().
			Err(err).
			Int64("postID", postID).
			Msg("Failed to increment comment count")
	}

	if post.AuthorID != userID {
		s.notificationService.Notify(ctx, post.AuthorID, models.NotificationTypeComment,
			fmt.Sprintf("Someone commented on your post in %s", post.CommunityName))
	}

	return id, nil
}
