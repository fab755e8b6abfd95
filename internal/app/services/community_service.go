package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
)

// CommunityStore is the slice of the community repository the services
// consume; the pgx repository satisfies it, tests substitute fakes.
type CommunityStore interface {
	GetAll(ctx context.Context, category *string, limit, offset int) ([]*models.Community, error)
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	GetFollowedIDs(ctx context.Context, userID int64) ([]int64, error)
	Create(ctx context.Context, community *models.Community) (int64, error)
	AddFollower(ctx context.Context, communityID, userID int64) error
	RemoveFollower(ctx context.Context, communityID, userID int64) error
	IncrementPostCount(ctx context.Context, communityID int64) error
}

// CommunityService defines the interface for community operations
type CommunityService interface {
	GetCommunities(ctx context.Context, userID int64, category *string, limit, offset int) ([]dto.CommunityResponse, error)
	GetCommunityByID(ctx context.Context, userID, id int64) (*dto.CommunityResponse, error)
	CreateCommunity(ctx context.Context, userID int64, req *dto.CreateCommunityRequest) (int64, error)
	ToggleFollow(ctx context.Context, communityID, userID int64) (bool, error)
}

// communityServiceImpl implements CommunityService
type communityServiceImpl struct {
	communityRepo CommunityStore
	logger        zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communityRepo CommunityStore, logger zerolog.Logger) CommunityService {
	return &communityServiceImpl{
		communityRepo: communityRepo,
		logger:        logger,
	}
}

// toCommunityResponse annotates a community for the calling user. The
// isFollowing flag derives from the follower set on the fetched row.
func toCommunityResponse(community *models.Community, userID int64) dto.CommunityResponse {
	return dto.CommunityResponse{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		Category:    community.Category,
		AdminID:     community.AdminID,
		Followers:   len(community.FollowerIDs),
		PostCount:   community.PostCount,
		IsFollowing: community.IsFollower(userID),
		CreatedAt:   community.CreatedAt,
	}
}

// GetCommunities lists communities newest-first with an optional category
// filter, annotated for the calling user
func (s *communityServiceImpl) GetCommunities(ctx context.Context, userID int64, category *string, limit, offset int) ([]dto.CommunityResponse, error) {
	communities, err := s.communityRepo.GetAll(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for _, community := range communities {
		responses = append(responses, toCommunityResponse(community, userID))
	}

	return responses, nil
}

// GetCommunityByID retrieves a single community annotated for the calling user
func (s *communityServiceImpl) GetCommunityByID(ctx context.Context, userID, id int64) (*dto.CommunityResponse, error) {
	community, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := toCommunityResponse(community, userID)
	return &response, nil
}

// CreateCommunity creates a community with the caller as admin. The caller
// is a follower from the moment the community exists.
func (s *communityServiceImpl) CreateCommunity(ctx context.Context, userID int64, req *dto.CreateCommunityRequest) (int64, error) {
	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		AdminID:     userID,
	}

	id, err := s.communityRepo.Create(ctx, community)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("communityID", id).
		Int64("adminID", userID).
		Str("name", req.Name).
		Msg("Community created")

	return id, nil
}

// ToggleFollow flips the caller's presence in the follower set and reports
// the resulting state
func (s *communityServiceImpl) ToggleFollow(ctx context.Context, communityID, userID int64) (bool, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return false, err
	}

	if community.IsFollower(userID) {
		if err := s.communityRepo.RemoveFollower(ctx, communityID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.communityRepo.AddFollower(ctx, communityID, userID); err != nil {
		return false, err
	}
	return true, nil
}
