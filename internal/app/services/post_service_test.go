package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// fakeNotifier records notifications instead of persisting them
type notice struct {
	userID  int64
	typ     models.NotificationType
	message string
}

type fakeNotifier struct {
	notices []notice
}

func (f *fakeNotifier) Notify(_ context.Context, userID int64, typ models.NotificationType, message string) {
	f.notices = append(f.notices, notice{userID: userID, typ: typ, message: message})
}

func (f *fakeNotifier) GetNotifications(_ context.Context, _ int64, _, _ int) ([]*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _, _ int64) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ int64) error { return nil }

// fakePostStore is an in-memory PostStore that records the since bound
// of every windowed read
type fakePostStore struct {
	posts         map[int64]*models.Post
	likes         map[int64]map[int64]bool
	comments      []*models.Comment
	commentCounts map[int64]int
	nextID        int64

	byCommunitySince []*time.Time
	getAllSince      []*time.Time
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts:         make(map[int64]*models.Post),
		likes:         make(map[int64]map[int64]bool),
		commentCounts: make(map[int64]int),
		nextID:        1,
	}
}

func (f *fakePostStore) addPost(p *models.Post) *models.Post {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.posts[p.ID] = p
	if f.likes[p.ID] == nil {
		f.likes[p.ID] = make(map[int64]bool)
	}
	return p
}

func (f *fakePostStore) snapshot(p *models.Post) *models.Post {
	out := *p
	out.LikeIDs = nil
	for userID := range f.likes[p.ID] {
		out.LikeIDs = append(out.LikeIDs, userID)
	}
	return &out
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	return f.snapshot(p), nil
}

func (f *fakePostStore) GetByCommunityID(_ context.Context, communityID int64, since *time.Time, limit, _ int) ([]*models.Post, error) {
	f.byCommunitySince = append(f.byCommunitySince, since)

	var out []*models.Post
	for _, p := range f.posts {
		if p.CommunityID != communityID {
			continue
		}
		if since != nil && p.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, f.snapshot(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePostStore) GetAll(_ context.Context, since *time.Time) ([]*models.Post, error) {
	f.getAllSince = append(f.getAllSince, since)

	var out []*models.Post
	for _, p := range f.posts {
		if since != nil && p.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, f.snapshot(p))
	}
	return out, nil
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post) (int64, error) {
	post.CreatedAt = time.Now()
	return f.addPost(post).ID, nil
}

func (f *fakePostStore) AddLike(_ context.Context, postID, userID int64) error {
	f.likes[postID][userID] = true
	return nil
}

func (f *fakePostStore) RemoveLike(_ context.Context, postID, userID int64) error {
	delete(f.likes[postID], userID)
	return nil
}

func (f *fakePostStore) IncrementCommentCount(_ context.Context, postID int64) error {
	f.commentCounts[postID]++
	return nil
}

func (f *fakePostStore) CreateComment(_ context.Context, comment *models.Comment) (int64, error) {
	comment.ID = f.nextID
	f.nextID++
	f.comments = append(f.comments, comment)
	return comment.ID, nil
}

func (f *fakePostStore) GetCommentsByPostID(_ context.Context, postID int64, _, _ int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type postFixture struct {
	service     PostService
	posts       *fakePostStore
	communities *fakeCommunityStore
	notifier    *fakeNotifier
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	posts := newFakePostStore()
	communities := newFakeCommunityStore()
	notifier := &fakeNotifier{}
	service := NewPostService(posts, communities, notifier, zerolog.Nop())

	return &postFixture{service: service, posts: posts, communities: communities, notifier: notifier}
}

func TestCreatePostRequiresFollowing(t *testing.T) {
	f := newPostFixture(t)
	f.communities.addCommunity(&models.Community{Name: "Robotics", AdminID: 5})
	ctx := context.Background()

	req := &dto.CreatePostRequest{Text: "First meetup on Friday"}

	_, err := f.service.CreatePost(ctx, 9, 1, req)
	assert.ErrorIs(t, err, apperrors.ErrNotFollower)

	require.NoError(t, f.communities.AddFollower(ctx, 1, 9))

	id, err := f.service.CreatePost(ctx, 9, 1, req)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, f.communities.postCounts[1], "the community post counter was bumped")
}

func TestToggleLikeNotifiesAuthorOnLikeOnly(t *testing.T) {
	f := newPostFixture(t)
	post := f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, CommunityName: "Robotics", CreatedAt: time.Now()})
	ctx := context.Background()

	liked, err := f.service.ToggleLike(ctx, 9, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, int64(5), f.notifier.notices[0].userID)
	assert.Equal(t, models.NotificationTypeLike, f.notifier.notices[0].typ)

	// Unliking is silent
	liked, err = f.service.ToggleLike(ctx, 9, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Len(t, f.notifier.notices, 1)

	// Liking your own post is silent too
	_, err = f.service.ToggleLike(ctx, 5, post.ID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.notices, 1)
}

func TestCreateCommentNotifiesAuthorAndBumpsCounter(t *testing.T) {
	f := newPostFixture(t)
	post := f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, CommunityName: "Robotics", CreatedAt: time.Now()})
	ctx := context.Background()

	_, err := f.service.CreateComment(ctx, 9, post.ID, &dto.CreateCommentRequest{CommunityID: 1, Text: "count me in"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.posts.commentCounts[post.ID])
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, models.NotificationTypeComment, f.notifier.notices[0].typ)

	// Commenting on your own post is silent
	_, err = f.service.CreateComment(ctx, 5, post.ID, &dto.CreateCommentRequest{CommunityID: 1, Text: "reminder"})
	require.NoError(t, err)
	assert.Len(t, f.notifier.notices, 1)
}

func TestGetFeedRejectsUnknownFilter(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.service.GetFeed(context.Background(), 9, "newest", 10, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetFeedWithoutFollowsIsEmpty(t *testing.T) {
	f := newPostFixture(t)

	feed, err := f.service.GetFeed(context.Background(), 9, FeedFilterAll, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Empty(t, f.posts.byCommunitySince, "no community was queried")
}

func TestGetFeedTrendingScopesToWindow(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	now := time.Now()

	f.communities.addCommunity(&models.Community{Name: "Robotics", AdminID: 5})
	require.NoError(t, f.communities.AddFollower(ctx, 1, 9))

	recent := f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "recent", CreatedAt: now.Add(-time.Hour)})
	old := f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "old", CreatedAt: now.Add(-48 * time.Hour)})
	f.posts.likes[old.ID][11] = true
	f.posts.likes[old.ID][12] = true

	feed, err := f.service.GetFeed(ctx, 9, FeedFilterTrending, 10, 0)
	require.NoError(t, err)

	require.Len(t, feed, 1, "posts older than the trailing day are excluded however liked")
	assert.Equal(t, recent.ID, feed[0].ID)

	require.Len(t, f.posts.byCommunitySince, 1)
	since := f.posts.byCommunitySince[0]
	require.NotNil(t, since, "trending reads are windowed")
	assert.WithinDuration(t, now.Add(-TrendingWindow), *since, time.Minute)
}

func TestGetFeedNonTrendingIsUnwindowed(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	f.communities.addCommunity(&models.Community{Name: "Robotics", AdminID: 5})
	require.NoError(t, f.communities.AddFollower(ctx, 1, 9))
	f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "old", CreatedAt: time.Now().Add(-48 * time.Hour)})

	feed, err := f.service.GetFeed(ctx, 9, FeedFilterAll, 10, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	require.Len(t, f.posts.byCommunitySince, 1)
	assert.Nil(t, f.posts.byCommunitySince[0])
}

func TestGetTrendingWindowsAndRanksByLikes(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	now := time.Now()

	quiet := f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "quiet", CreatedAt: now.Add(-time.Hour)})
	popular := f.posts.addPost(&models.Post{CommunityID: 2, AuthorID: 6, Text: "popular", CreatedAt: now.Add(-2 * time.Hour)})
	f.posts.likes[popular.ID][11] = true
	f.posts.likes[popular.ID][12] = true

	trending, err := f.service.GetTrending(ctx, 9, 10, 0)
	require.NoError(t, err)

	require.Len(t, trending, 2)
	assert.Equal(t, popular.ID, trending[0].ID)
	assert.Equal(t, quiet.ID, trending[1].ID)

	require.Len(t, f.posts.getAllSince, 1)
	require.NotNil(t, f.posts.getAllSince[0])
	assert.WithinDuration(t, now.Add(-TrendingWindow), *f.posts.getAllSince[0], time.Minute)
}

func TestSearchEnforcesMinLengthAndMatchesCaseInsensitive(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	_, err := f.service.Search(ctx, 9, "a", 10, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "Robotics meetup on Friday", CreatedAt: time.Now()})
	f.posts.addPost(&models.Post{CommunityID: 1, AuthorID: 5, Text: "chess night", CreatedAt: time.Now()})

	results, err := f.service.Search(ctx, 9, "ROBOTICS", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "Robotics")
}

func TestSortPostsByRecency(t *testing.T) {
	now := time.Now()
	posts := []*models.Post{
		{ID: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, CreatedAt: now},
		{ID: 3, CreatedAt: now.Add(-time.Hour)},
	}

	sortPosts(posts, false)

	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, int64(3), posts[1].ID)
	assert.Equal(t, int64(1), posts[2].ID)
}

func TestSortPostsByLikes(t *testing.T) {
	now := time.Now()
	posts := []*models.Post{
		{ID: 1, CreatedAt: now, LikeIDs: []int64{10}},
		{ID: 2, CreatedAt: now.Add(-time.Hour), LikeIDs: []int64{10, 11, 12}},
		{ID: 3, CreatedAt: now.Add(-2 * time.Hour), LikeIDs: []int64{10, 11}},
	}

	sortPosts(posts, true)

	assert.Equal(t, int64(2), posts[0].ID, "the most liked post ranks first regardless of age")
	assert.Equal(t, int64(3), posts[1].ID)
	assert.Equal(t, int64(1), posts[2].ID)
}

func TestSortPostsLikeTiesBreakByRecency(t *testing.T) {
	now := time.Now()
	posts := []*models.Post{
		{ID: 1, CreatedAt: now.Add(-time.Hour), LikeIDs: []int64{10, 11}},
		{ID: 2, CreatedAt: now, LikeIDs: []int64{10, 11}},
	}

	sortPosts(posts, true)

	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, int64(1), posts[1].ID)
}

func TestToPostResponseAnnotatesForCaller(t *testing.T) {
	now := time.Now()
	post := &models.Post{
		ID:            7,
		CommunityID:   3,
		CommunityName: "Robotics",
		AuthorID:      5,
		Text:          "First meetup on Friday",
		Images:        []string{"https://cdn.example.edu/a.png"},
		CommentCount:  4,
		CreatedAt:     now,
		LikeIDs:       []int64{5, 9, 12},
	}

	liked := toPostResponse(post, 9)
	assert.Equal(t, int64(7), liked.ID)
	assert.Equal(t, "Robotics", liked.CommunityName)
	assert.Equal(t, 3, liked.Likes)
	assert.True(t, liked.IsLiked)

	notLiked := toPostResponse(post, 42)
	assert.Equal(t, 3, notLiked.Likes)
	assert.False(t, notLiked.IsLiked)
}
