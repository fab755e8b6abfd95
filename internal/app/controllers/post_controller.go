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

// PostController handles post, feed and comment operations
type PostController struct {
	postService services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// GetCommunityPosts lists a community's posts
// @Summary List a community's posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.PostResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/posts [get]
func (c *PostController) GetCommunityPosts(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	communityID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid community ID"))
		return
	}

	posts, err := c.postService.GetCommunityPosts(ctx.Request.Context(), userID, communityID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// CreatePost creates a post in a community
// @Summary Create a post
// @Description Creates a post in a community. Only current followers may post.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.CreatePostRequest true "Post fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller does not follow this community"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	communityID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid community ID"))
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("text is required"))
		return
	}

	id, err := c.postService.CreatePost(ctx.Request.Context(), userID, communityID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      id,
		Message: "Post created successfully",
	})
}

// ToggleLike toggles the caller's like state on a post
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param postId path int true "Post ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /communities/{id}/posts/{postId}/like [post]
func (c *PostController) ToggleLike(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	postID, err := strconv.ParseInt(ctx.Param("postId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	isLiked, err := c.postService.ToggleLike(ctx.Request.Context(), userID, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Post unliked"
	if isLiked {
		message = "Post liked"
	}

	ctx.JSON(http.StatusOK, dto.LikeResponse{
		Message: message,
		IsLiked: isLiked,
	})
}

// GetFeed assembles the caller's feed
// @Summary Get the caller's feed
// @Description Merges posts from the communities the caller follows, sorted and paginated over the combined list
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param filter query string false "Filter mode: all, following or trending" default(all)
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown filter mode"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /posts/feed [get]
func (c *PostController) GetFeed(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)
	filter := ctx.DefaultQuery("filter", services.FeedFilterAll)

	posts, err := c.postService.GetFeed(ctx.Request.Context(), userID, filter, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// GetTrending ranks posts across every community
// @Summary Get globally trending posts
// @Description Posts from every community in the trailing 24 hours, sorted by like count
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.PostResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /posts/trending [get]
func (c *PostController) GetTrending(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	posts, err := c.postService.GetTrending(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// Search matches posts against a query string
// @Summary Search posts
// @Description Case-insensitive substring match against post text, sorted by recency
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param q query string true "Query string, at least 2 characters"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse "Query too short"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /posts/search [get]
func (c *PostController) Search(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	posts, err := c.postService.Search(ctx.Request.Context(), userID, ctx.Query("q"), limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// GetComments lists a post's comments
// @Summary List a post's comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.CommentResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [get]
func (c *PostController) GetComments(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx)

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	comments, err := c.postService.GetComments(ctx.Request.Context(), postID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// CreateComment creates a comment under a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/comments [post]
func (c *PostController) CreateComment(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("communityId and text are required"))
		return
	}

	id, err := c.postService.CreateComment(ctx.Request.Context(), userID, postID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      id,
		Message: "Comment created successfully",
	})
}
