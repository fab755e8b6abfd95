package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/websocket"
)

// fakeGroupStore is an in-memory GroupStore that captures the
// last-message summary written for each group
type lastMessageUpdate struct {
	text     string
	senderID int64
	at       time.Time
}

type fakeGroupStore struct {
	groups      map[int64]*models.Group
	members     map[int64]map[int64]bool
	lastMessage map[int64]lastMessageUpdate
	nextID      int64
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		groups:      make(map[int64]*models.Group),
		members:     make(map[int64]map[int64]bool),
		lastMessage: make(map[int64]lastMessageUpdate),
		nextID:      1,
	}
}

func (f *fakeGroupStore) addGroup(g *models.Group) *models.Group {
	if g.ID == 0 {
		g.ID = f.nextID
		f.nextID++
	}
	f.groups[g.ID] = g
	if f.members[g.ID] == nil {
		f.members[g.ID] = make(map[int64]bool)
	}
	return g
}

func (f *fakeGroupStore) snapshot(g *models.Group) *models.Group {
	out := *g
	out.MemberIDs = nil
	for userID := range f.members[g.ID] {
		out.MemberIDs = append(out.MemberIDs, userID)
	}
	return &out
}

func (f *fakeGroupStore) GetAll(_ context.Context, _, _ int) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range f.groups {
		out = append(out, f.snapshot(g))
	}
	return out, nil
}

func (f *fakeGroupStore) GetByID(_ context.Context, id int64) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	return f.snapshot(g), nil
}

func (f *fakeGroupStore) Create(_ context.Context, group *models.Group) (int64, error) {
	created := f.addGroup(group)
	f.members[created.ID][created.AdminID] = true
	return created.ID, nil
}

func (f *fakeGroupStore) AddMember(_ context.Context, groupID, userID int64) error {
	f.members[groupID][userID] = true
	return nil
}

func (f *fakeGroupStore) RemoveMember(_ context.Context, groupID, userID int64) error {
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeGroupStore) UpdateLastMessage(_ context.Context, groupID int64, text string, senderID int64, at time.Time) error {
	f.lastMessage[groupID] = lastMessageUpdate{text: text, senderID: senderID, at: at}
	return nil
}

// fakeMessageStore is an in-memory MessageStore
type fakeMessageStore struct {
	messages []*models.Message
	nextID   int64
}

func (f *fakeMessageStore) Create(_ context.Context, message *models.Message) (int64, error) {
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, message)
	return message.ID, nil
}

func (f *fakeMessageStore) GetByGroupID(_ context.Context, groupID int64, _, _ int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeUserFinder resolves ids against a fixed user set
type fakeUserFinder struct {
	users map[int64]*models.User
}

func (f *fakeUserFinder) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

type groupFixture struct {
	service  GroupService
	groups   *fakeGroupStore
	messages *fakeMessageStore
	notifier *fakeNotifier
	hub      *websocket.Hub
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()

	groups := newFakeGroupStore()
	messages := &fakeMessageStore{}
	users := &fakeUserFinder{users: map[int64]*models.User{
		5: {ID: 5, Name: "Alice"},
		9: {ID: 9, Name: "Bora"},
	}}
	notifier := &fakeNotifier{}

	hub := websocket.NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	service := NewGroupService(groups, messages, users, notifier, hub, zerolog.Nop())
	return &groupFixture{service: service, groups: groups, messages: messages, notifier: notifier, hub: hub}
}

func (f *groupFixture) seedGroup(t *testing.T, adminID int64, memberIDs ...int64) *models.Group {
	t.Helper()

	group := &models.Group{Name: "Study Hall", Description: "Exam prep", AdminID: adminID}
	_, err := f.groups.Create(context.Background(), group)
	require.NoError(t, err)
	for _, id := range memberIDs {
		f.groups.members[group.ID][id] = true
	}
	return group
}

func TestJoinGroupRejectsExistingMember(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5, 9)

	err := f.service.JoinGroup(context.Background(), group.ID, 9)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
}

func TestJoinGroupAddsMemberAndNotifiesAdmin(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5)

	require.NoError(t, f.service.JoinGroup(context.Background(), group.ID, 9))

	assert.True(t, f.groups.members[group.ID][9])
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, int64(5), f.notifier.notices[0].userID)
	assert.Equal(t, models.NotificationTypeJoin, f.notifier.notices[0].typ)
}

func TestJoinGroupUnknownGroup(t *testing.T) {
	f := newGroupFixture(t)

	err := f.service.JoinGroup(context.Background(), 404, 9)
	assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
}

func TestLeaveGroupRequiresMembership(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5)

	err := f.service.LeaveGroup(context.Background(), group.ID, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotMember)
}

func TestLeaveGroupRejectsAdmin(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5)

	err := f.service.LeaveGroup(context.Background(), group.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrAdminCannotLeave)
	assert.True(t, f.groups.members[group.ID][5], "the admin stays in the member set")
}

func TestLeaveGroupRemovesMember(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5, 9)

	require.NoError(t, f.service.LeaveGroup(context.Background(), group.ID, 9))
	assert.False(t, f.groups.members[group.ID][9])
}

func TestSendMessageRequiresMembership(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5)

	_, err := f.service.SendMessage(context.Background(), 9, group.ID, &dto.SendMessageRequest{Text: "hi"})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.Empty(t, f.messages.messages, "nothing was persisted")
}

func TestSendMessageValidatesPayload(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5, 9)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.SendMessageRequest
	}{
		{"empty text", &dto.SendMessageRequest{Type: "text"}},
		{"file without url", &dto.SendMessageRequest{Type: "file", Text: "notes"}},
		{"unknown type", &dto.SendMessageRequest{Type: "voice", Text: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SendMessage(ctx, 9, group.ID, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestSendMessagePersistsAndUpdatesSummary(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5, 9)
	ctx := context.Background()

	id, err := f.service.SendMessage(ctx, 9, group.ID, &dto.SendMessageRequest{Text: "see you at 6"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, models.MessageTypeText, f.messages.messages[0].MessageType, "type defaults to text")

	summary := f.groups.lastMessage[group.ID]
	assert.Equal(t, "see you at 6", summary.text)
	assert.Equal(t, int64(9), summary.senderID)
}

func TestSendMessageBareFileSummarizesAsSentAFile(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5, 9)

	_, err := f.service.SendMessage(context.Background(), 9, group.ID, &dto.SendMessageRequest{
		Type:    "file",
		FileURL: "https://cdn.example.edu/notes.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sent a file", f.groups.lastMessage[group.ID].text)
}

func TestGetMessagesRequiresMembership(t *testing.T) {
	f := newGroupFixture(t)
	group := f.seedGroup(t, 5)

	_, err := f.service.GetMessages(context.Background(), 9, group.ID, 10, 0)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
}

func TestSummaryText(t *testing.T) {
	text := &models.Message{MessageType: models.MessageTypeText, Text: "see you at 6"}
	assert.Equal(t, "see you at 6", summaryText(text))

	fileURL := "https://cdn.example.edu/notes.pdf"
	bareFile := &models.Message{MessageType: models.MessageTypeFile, FileURL: &fileURL}
	assert.Equal(t, "Sent a file", summaryText(bareFile))

	captionedFile := &models.Message{MessageType: models.MessageTypeFile, Text: "lecture notes", FileURL: &fileURL}
	assert.Equal(t, "lecture notes", summaryText(captionedFile))
}

func TestToGroupResponseAnnotatesForCaller(t *testing.T) {
	now := time.Now()
	lastText := "see you at 6"
	group := &models.Group{
		ID:              4,
		Name:            "Study Hall",
		Description:     "Exam prep",
		AdminID:         5,
		CreatedAt:       now,
		LastMessageText: &lastText,
		LastMessageAt:   &now,
		MemberIDs:       []int64{5, 9},
	}

	member := toGroupResponse(group, 9)
	assert.Equal(t, int64(4), member.ID)
	assert.Equal(t, 2, member.Members)
	assert.True(t, member.IsMember)
	assert.Equal(t, &lastText, member.LastMessage)

	outsider := toGroupResponse(group, 42)
	assert.Equal(t, 2, outsider.Members)
	assert.False(t, outsider.IsMember)
}
