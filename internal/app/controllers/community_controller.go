package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
)

// CommunityController handles community operations
type CommunityController struct {
	communityService services.CommunityService
	logger           zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService, logger zerolog.Logger) *CommunityController {
	return &CommunityController{
		communityService: communityService,
		logger:           logger,
	}
}

// GetCommunities lists communities
// @Summary List communities
// @Description Lists communities newest-first with an optional category filter, annotated with isFollowing for the caller
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Param category query string false "Category filter"
// @Success 200 {array} dto.CommunityResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities [get]
func (c *CommunityController) GetCommunities(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	var category *string
	if v := ctx.Query("category"); v != "" {
		category = &v
	}

	communities, err := c.communityService.GetCommunities(ctx.Request.Context(), userID, category, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, communities)
}

// GetCommunityByID retrieves a community
// @Summary Get a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.CommunityResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [get]
func (c *CommunityController) GetCommunityByID(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid community ID"))
		return
	}

	community, err := c.communityService.GetCommunityByID(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, community)
}

// CreateCommunity creates a community
// @Summary Create a community
// @Description Creates a community with the caller as admin and first follower
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	var req dto.CreateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("name, description and category are required"))
		return
	}

	id, err := c.communityService.CreateCommunity(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      id,
		Message: "Community created successfully",
	})
}

// ToggleFollow toggles the caller's follow state
// @Summary Follow or unfollow a community
// @Description Flips the caller's presence in the follower set and echoes the resulting state
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.FollowResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/follow [post]
func (c *CommunityController) ToggleFollow(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid community ID"))
		return
	}

	isFollowing, err := c.communityService.ToggleFollow(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Community unfollowed"
	if isFollowing {
		message = "Community followed"
	}

	ctx.JSON(http.StatusOK, dto.FollowResponse{
		Message:     message,
		IsFollowing: isFollowing,
	})
}
