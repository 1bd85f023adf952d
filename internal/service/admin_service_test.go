package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

func TestBulkSoftDeletePostsReportsAffectedRows(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	svc := NewAdminService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	ctx := context.Background()

	first, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{Title: "One", Content: "body", Publish: true})
	require.NoError(t, err)
	second, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{Title: "Two", Content: "body", Publish: true})
	require.NoError(t, err)

	// One real post, one unknown ID: only the real one counts.
	deleted, err := svc.SoftDeletePosts(ctx, []uuid.UUID{first.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// The admin listing still shows the deleted row.
	showDeleted := true
	rows, _, err := svc.ListPosts(ctx, dto.AdminPostFilter{Deleted: &showDeleted})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.NotNil(t, rows[0].DeletedAt)

	notDeleted := false
	rows, _, err = svc.ListPosts(ctx, dto.AdminPostFilter{Deleted: &notDeleted})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
}

func TestModerationQueueAndApproval(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	commentSvc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db), nil, 0)
	svc := NewAdminService(
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	ctx := context.Background()

	post, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{Title: "Open", Content: "body", Publish: true})
	require.NoError(t, err)

	comment, err := commentSvc.SubmitComment(ctx, post.Slug, "1.2.3.4", dto.CreateCommentRequest{
		AuthorName:  "Carol",
		AuthorEmail: "carol@example.com",
		Content:     "First!",
	})
	require.NoError(t, err)

	pending := false
	rows, _, err := svc.ListComments(ctx, dto.AdminCommentFilter{Approved: &pending})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Open", rows[0].PostTitle)

	require.NoError(t, svc.ApproveComment(ctx, comment.ID))

	rows, _, err = svc.ListComments(ctx, dto.AdminCommentFilter{Approved: &pending})
	require.NoError(t, err)
	assert.Empty(t, rows)

	deleted, err := svc.SoftDeleteComments(ctx, []uuid.UUID{comment.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	detail, err := postSvc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)
}
