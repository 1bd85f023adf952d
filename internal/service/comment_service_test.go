package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

func TestSubmitCommentAwaitsModeration(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	commentRepo := repository.NewCommentRepository(db)
	svc := NewCommentService(commentRepo, repository.NewPostRepository(db), nil, 0)
	ctx := context.Background()

	post, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Open For Comments",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	comment, err := svc.SubmitComment(ctx, post.Slug, "1.2.3.4", dto.CreateCommentRequest{
		AuthorName:  "Carol",
		AuthorEmail: "carol@example.com",
		Content:     "Great read!",
	})
	require.NoError(t, err)

	// Pending comments stay off the public post.
	detail, err := postSvc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)

	require.NoError(t, commentRepo.Approve(ctx, comment.ID))

	detail, err = postSvc.GetPublishedDetail(ctx, post.Slug, "1.2.3.4")
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Carol", detail.Comments[0].AuthorName)
}

func TestSubmitCommentSanitizesContent(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db), nil, 0)
	ctx := context.Background()

	post, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Open For Comments",
		Content: "body",
		Publish: true,
	})
	require.NoError(t, err)

	comment, err := svc.SubmitComment(ctx, post.Slug, "1.2.3.4", dto.CreateCommentRequest{
		AuthorName:  "Mallory",
		AuthorEmail: "mallory@example.com",
		Content:     `<script>alert("x")</script>Nice <b>post</b>`,
	})
	require.NoError(t, err)

	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "<b>post</b>")
}

func TestSubmitCommentOnHiddenPost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	svc := NewCommentService(repository.NewCommentRepository(db), repository.NewPostRepository(db), nil, 0)
	ctx := context.Background()

	draft, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Still A Draft",
		Content: "body",
	})
	require.NoError(t, err)

	_, err = svc.SubmitComment(ctx, draft.Slug, "1.2.3.4", dto.CreateCommentRequest{
		AuthorName:  "Carol",
		AuthorEmail: "carol@example.com",
		Content:     "hello?",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
