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

// GroupController handles group and chat operations
type GroupController struct {
	groupService services.GroupService
	logger       zerolog.Logger
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService, logger zerolog.Logger) *GroupController {
	return &GroupController{
		groupService: groupService,
		logger:       logger,
	}
}

// GetGroups lists groups
// @Summary List groups
// @Description Lists groups newest-first, annotated with isMember for the caller
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.GroupResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /groups [get]
func (c *GroupController) GetGroups(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	groups, err := c.groupService.GetGroups(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, groups)
}

// GetGroupByID retrieves a group
// @Summary Get a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroupByID(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	group, err := c.groupService.GetGroupByID(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, group)
}

// CreateGroup creates a group
// @Summary Create a group
// @Description Creates a group with the caller as admin and first member
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("name and description are required"))
		return
	}

	id, err := c.groupService.CreateGroup(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      id,
		Message: "Group created successfully",
	})
}

// JoinGroup adds the caller to the member set
// @Summary Join a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Already a member"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/join [post]
func (c *GroupController) JoinGroup(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	if err := c.groupService.JoinGroup(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Joined group successfully"})
}

// LeaveGroup removes the caller from the member set
// @Summary Leave a group
// @Description Removes the caller from the member set. The admin cannot leave while remaining admin.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Not a member, or admin cannot leave"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/leave [post]
func (c *GroupController) LeaveGroup(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	if err := c.groupService.LeaveGroup(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Left group successfully"})
}

// GetMessages lists a group's chat messages
// @Summary List group messages
// @Description Lists a group's messages newest-first. Only members may read the chat.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} dto.GroupMessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/messages [get]
func (c *GroupController) GetMessages(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)
	limit, offset := helpers.ParseLimitOffset(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	messages, err := c.groupService.GetMessages(ctx.Request.Context(), userID, id, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// SendMessage persists and broadcasts a chat message
// @Summary Send a group message
// @Description Persists a chat message and broadcasts it to connected clients. Only members may send.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.SendMessageRequest true "Message fields"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/messages [post]
func (c *GroupController) SendMessage(ctx *gin.Context) {
	userID := middleware.MustUserID(ctx)

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid message payload"))
		return
	}

	messageID, err := c.groupService.SendMessage(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		ID:      messageID,
		Message: "Message sent successfully",
	})
}
