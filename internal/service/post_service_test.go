package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

func TestCreatePostDerivesUniqueSlugs(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Hello World",
		Content: "first body",
		Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)

	second, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Hello World",
		Content: "second body",
		Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second.Slug)

	// A deleted post keeps its slug reserved.
	require.NoError(t, svc.SoftDeletePost(ctx, author.ID, first.Slug))

	third, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Hello World",
		Content: "third body",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestCreatePostRejectsUnsluggableTitle(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)

	_, err := svc.CreatePost(context.Background(), author.ID, dto.CreatePostRequest{
		Title:   "???",
		Content: "body",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestDraftPostIsNotPubliclyVisible(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Work In Progress",
		Content: "unfinished",
	})
	require.NoError(t, err)

	_, err = svc.GetPublishedDetail(ctx, draft.Slug, "1.2.3.4")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	listed, err := svc.ListPublished(ctx, dto.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed.Data)

	// The author still sees it in their own listing.
	mine, err := svc.MyPosts(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine.Data, 1)
}

func TestScheduledPostHiddenUntilPublishTime(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "From The Future",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&model.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("published_at", future).Error)

	_, err = svc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	listed, err := svc.ListPublished(ctx, dto.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed.Data)
}

func TestSoftDeletePostIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Short Lived",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDeletePost(ctx, author.ID, post.Slug))
	require.NoError(t, svc.SoftDeletePost(ctx, author.ID, post.Slug))

	_, err = svc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	mine, err := svc.MyPosts(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, mine.Data)
}

func TestUpdatePostOwnership(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	other := createTestUser(t, db, "bob", "author")
	admin := createTestUser(t, db, "root", "admin")
	svc := newTestPostService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Mine",
		Content: "body",
	})
	require.NoError(t, err)

	newTitle := "Not Yours"
	_, err = svc.UpdatePost(ctx, other.ID, post.Slug, dto.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.UpdatePost(ctx, admin.ID, post.Slug, dto.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Not Yours", updated.Title)
	// The slug stays stable across edits.
	assert.Equal(t, post.Slug, updated.Slug)
}

func TestPublishPostKeepsOriginalPublishTime(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Draft First",
		Content: "body",
	})
	require.NoError(t, err)
	assert.Empty(t, draft.PublishedAt)

	published, err := svc.PublishPost(ctx, author.ID, draft.Slug)
	require.NoError(t, err)
	assert.NotEmpty(t, published.PublishedAt)

	again, err := svc.PublishPost(ctx, author.ID, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, published.PublishedAt, again.PublishedAt)
}

func TestGetPublishedDetailCountsView(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Read Me",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	_, err = svc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	require.NoError(t, err)

	var stored model.Post
	require.NoError(t, db.Where("id = ?", post.ID).First(&stored).Error)
	assert.Equal(t, 1, stored.Views)
}

func TestHomeSplitsFeaturedAndRecent(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	featured, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Star Of The Show",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Post{}).
		Where("id = ?", featured.ID).
		UpdateColumn("featured", true).Error)

	_, err = svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Ordinary News",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	home, err := svc.Home(ctx)
	require.NoError(t, err)

	require.Len(t, home.Featured, 1)
	assert.Equal(t, "star-of-the-show", home.Featured[0].Slug)

	// Featured posts are excluded from the recent block.
	require.Len(t, home.Recent, 1)
	assert.Equal(t, "ordinary-news", home.Recent[0].Slug)
}

func TestUpdatePostReplacesTags(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	svc := newTestPostService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Tagged",
		Content: "body",
		Tags:    []string{"Go", "GORM"},
		Publish: true,
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Go", "GORM"}, post.Tags)

	// Shrinking the tag set must delete the dropped join rows, not just
	// upsert the kept ones.
	updated, err := svc.UpdatePost(ctx, author.ID, post.Slug, dto.UpdatePostRequest{
		Tags: []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, updated.Tags)

	var joined int64
	require.NoError(t, db.Table("post_tags").Where("post_id = ?", post.ID).Count(&joined).Error)
	assert.Equal(t, int64(1), joined)

	cleared, err := svc.UpdatePost(ctx, author.ID, post.Slug, dto.UpdatePostRequest{
		Tags: []string{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)

	require.NoError(t, db.Table("post_tags").Where("post_id = ?", post.ID).Count(&joined).Error)
	assert.Equal(t, int64(0), joined)
}
