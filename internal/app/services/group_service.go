package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/websocket"
)

// GroupStore is the slice of the group repository the service consumes;
// the pgx repository satisfies it, tests substitute fakes.
type GroupStore interface {
	GetAll(ctx context.Context, limit, offset int) ([]*models.Group, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) (int64, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	UpdateLastMessage(ctx context.Context, groupID int64, text string, senderID int64, at time.Time) error
}

// MessageStore is the slice of the message repository the service consumes
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	GetByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*models.Message, error)
}

// UserFinder resolves a user id to its profile, for sender annotation
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// GroupService defines the interface for group and chat operations
type GroupService interface {
	GetGroups(ctx context.Context, userID int64, limit, offset int) ([]dto.GroupResponse, error)
	GetGroupByID(ctx context.Context, userID, id int64) (*dto.GroupResponse, error)
	CreateGroup(ctx context.Context, userID int64, req *dto.CreateGroupRequest) (int64, error)
	JoinGroup(ctx context.Context, groupID, userID int64) error
	LeaveGroup(ctx context.Context, groupID, userID int64) error
	GetMessages(ctx context.Context, userID, groupID int64, limit, offset int) ([]dto.GroupMessageResponse, error)
	SendMessage(ctx context.Context, userID, groupID int64, req *dto.SendMessageRequest) (int64, error)
}

// groupServiceImpl implements GroupService
type groupServiceImpl struct {
	groupRepo           GroupStore
	messageRepo         MessageStore
	userRepo            UserFinder
	notificationService NotificationService
	hub                 *websocket.Hub
	logger              zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo GroupStore,
	messageRepo MessageStore,
	userRepo UserFinder,
	notificationService NotificationService,
	hub *websocket.Hub,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo:           groupRepo,
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		hub:                 hub,
		logger:              logger,
	}
}

// toGroupResponse annotates a group for the calling user. The isMember
// flag derives from the member set on the fetched row.
func toGroupResponse(group *models.Group, userID int64) dto.GroupResponse {
	return dto.GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		IsPrivate:     group.IsPrivate,
		AdminID:       group.AdminID,
		Members:       len(group.MemberIDs),
		IsMember:      group.IsMember(userID),
		LastMessage:   group.LastMessageText,
		LastMessageAt: group.LastMessageAt,
		CreatedAt:     group.CreatedAt,
	}
}

// GetGroups lists groups newest-first annotated for the calling user
func (s *groupServiceImpl) GetGroups(ctx context.Context, userID int64, limit, offset int) ([]dto.GroupResponse, error) {
	groups, err := s.groupRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, toGroupResponse(group, userID))
	}

	return responses, nil
}

// GetGroupByID retrieves a single group annotated for the calling user
func (s *groupServiceImpl) GetGroupByID(ctx context.Context, userID, id int64) (*dto.GroupResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := toGroupResponse(group, userID)
	return &response, nil
}

// CreateGroup creates a group with the caller as admin. The caller is a
// member from the moment the group exists.
func (s *groupServiceImpl) CreateGroup(ctx context.Context, userID int64, req *dto.CreateGroupRequest) (int64, error) {
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		AdminID:     userID,
	}

	id, err := s.groupRepo.Create(ctx, group)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("groupID", id).
		Int64("adminID", userID).
		Str("name", req.Name).
		Msg("Group created")

	return id, nil
}

// JoinGroup adds the caller to the member set. Joining a group twice is
// rejected. The group admin is notified of new members.
func (s *groupServiceImpl) JoinGroup(ctx context.Context, groupID, userID int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if group.IsMember(userID) {
		return apperrors.ErrAlreadyMember
	}

	if err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		return err
	}

	if group.AdminID != userID {
		s.notificationService.Notify(ctx, group.AdminID, models.NotificationTypeJoin,
			fmt.Sprintf("Someone joined %s", group.Name))
	}

	return nil
}

// LeaveGroup removes the caller from the member set. The admin cannot
// leave while remaining admin.
func (s *groupServiceImpl) LeaveGroup(ctx context.Context, groupID, userID int64) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if !group.IsMember(userID) {
		return apperrors.ErrNotMember
	}

	if group.AdminID == userID {
		return apperrors.ErrAdminCannotLeave
	}

	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

// GetMessages lists a group's messages newest-first. Only members may
// read the chat.
func (s *groupServiceImpl) GetMessages(ctx context.Context, userID, groupID int64, limit, offset int) ([]dto.GroupMessageResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !group.IsMember(userID) {
		return nil, apperrors.NewForbiddenError("You must be a member of this group")
	}

	messages, err := s.messageRepo.GetByGroupID(ctx, groupID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GroupMessageResponse, 0, len(messages))
	for _, message := range messages {
		response := dto.GroupMessageResponse{
			ID:        message.ID,
			GroupID:   message.GroupID,
			SenderID:  message.SenderID,
			Type:      string(message.MessageType),
			Text:      message.Text,
			FileURL:   message.FileURL,
			CreatedAt: message.CreatedAt,
		}
		if message.Sender != nil {
			response.SenderName = message.Sender.Name
		}
		responses = append(responses, response)
	}

	return responses, nil
}

// SendMessage persists a chat message, refreshes the group's last-message
// summary best-effort and broadcasts to connected clients. Only members
// may send.
func (s *groupServiceImpl) SendMessage(ctx context.Context, userID, groupID int64, req *dto.SendMessageRequest) (int64, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}

	if !group.IsMember(userID) {
		return 0, apperrors.NewForbiddenError("You must be a member of this group")
	}

	messageType := models.MessageType(req.Type)
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	var fileURL *string
	switch messageType {
	case models.MessageTypeText:
		if req.Text == "" {
			return 0, apperrors.NewValidationError("text is required for text messages")
		}
	case models.MessageTypeFile:
		if req.FileURL == "" {
			return 0, apperrors.NewValidationError("fileUrl is required for file messages")
		}
		fileURL = &req.FileURL
	default:
		return 0, apperrors.NewValidationError("type must be one of: text, file")
	}

	message := &models.Message{
		GroupID:     groupID,
		SenderID:    userID,
		MessageType: messageType,
		Text:        req.Text,
		FileURL:     fileURL,
	}

	id, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if err := s.groupRepo.UpdateLastMessage(ctx, groupID, summaryText(message), userID, now); err != nil {
		// Stale summary until the next message lands
		s.logger.Warn().
			Err(err).
			Int64("groupID", groupID).
			Msg("Failed to update last-message summary")
	}

	broadcast := &websocket.Message{
		ID:        id,
		Type:      string(messageType),
		GroupID:   groupID,
		SenderID:  userID,
		Text:      req.Text,
		FileURL:   req.FileURL,
		Timestamp: now,
	}
	if sender, err := s.userRepo.FindByID(ctx, userID); err == nil {
		broadcast.SenderName = sender.Name
	}
	s.hub.BroadcastToGroup(broadcast)

	return id, nil
}

// summaryText is the text cached on the group row for list previews
func summaryText(message *models.Message) string {
	if message.MessageType == models.MessageTypeFile && message.Text == "" {
		return "Sent a file"
	}
	return message.Text
}
