package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/repositories"
)

// Handler for WebSocket connections
type Handler struct {
	hub       *Hub
	groupRepo *repositories.GroupRepository
	logger    zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, groupRepo *repositories.GroupRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time group chat
// @Description Upgrades HTTP connection to a WebSocket connection for real-time chat messaging
// @Tags groups, websocket
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "User is not a member of the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id}/chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	groupIDStr := c.Param("id")
	groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid group ID"))
		return
	}

	// Set by the auth middleware
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	userID, ok := userIDInterface.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Invalid user ID format"))
		return
	}

	group, err := h.groupRepo.GetByID(c, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Group not found"))
		return
	}

	if !group.IsMember(userID) {
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("You must be a member of this group"))
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("groupID", groupID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	// Create a new client and register it with the hub
	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		groupID: groupID,
		logger:  h.logger,
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("groupID", groupID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
