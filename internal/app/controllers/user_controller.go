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

// UserController handles profile, notification and bookmark operations
type UserController struct {
	userService         services.UserService
	notificationService services.NotificationService
	logger              zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(
	userService services.UserService,
	notificationService services.NotificationService,
	logger zerolog.Logger,
) *UserController {
	return &UserController{
		userService:         userService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetProfile retrieves the caller's profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	profile, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's profile
// @Summary Update own profile
// @Description Updates the owner-editable profile fields and marks the profile complete
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("name, regNo, department and year are required"))
		return
	}

	if err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Profile updated successfully"})
}

// GetNotifications lists the caller's notifications
// @Summary List notifications
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} models.Notification
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/notifications [get]
func (c *UserController) GetNotifications(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	notifications, err := c.notificationService.GetNotifications(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one notification as read
// @Summary Mark a notification as read
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /users/notifications/{id}/read [put]
func (c *UserController) MarkNotificationRead(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid notification ID"))
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllNotificationsRead marks every notification as read
// @Summary Mark all notifications as read
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/notifications/read-all [put]
func (c *UserController) MarkAllNotificationsRead(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	if err := c.notificationService.MarkAllRead(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "All notifications marked as read"})
}

// GetBookmarks lists the caller's bookmarks
// @Summary List bookmarks
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} models.Bookmark
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/bookmarks [get]
func (c *UserController) GetBookmarks(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	bookmarks, err := c.userService.GetBookmarks(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bookmarks)
}

// CreateBookmark saves a post for the caller
// @Summary Create a bookmark
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookmarkRequest true "Bookmark fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields or already bookmarked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/bookmarks [post]
func (c *UserController) CreateBookmark(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	var req dto.CreateBookmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("postId and communityId are required"))
		return
	}

	id, err := c.userService.CreateBookmark(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      id,
		Message: "Bookmark created successfully",
	})
}

// DeleteBookmark removes one of the caller's bookmarks
// @Summary Delete a bookmark
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bookmark ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Bookmark not found"
// @Router /users/bookmarks/{id} [delete]
func (c *UserController) DeleteBookmark(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid bookmark ID"))
		return
	}

	if err := c.userService.DeleteBookmark(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Bookmark deleted successfully"})
}
