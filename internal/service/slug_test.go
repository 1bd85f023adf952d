package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"already a slug", "hello-world", "hello-world"},
		{"punctuation collapses", "Go 1.22: What's New?", "go-1-22-what-s-new"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"repeated separators", "a  __  b", "a-b"},
		{"unicode letters kept", "Café Culture", "café-culture"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"nothing usable", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestUniquePostSlugProbesTakenSlugs(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	slug, err := uniquePostSlug(ctx, repo, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", slug)

	require.NoError(t, repo.Create(ctx, &model.Post{
		AuthorID: author.ID,
		Title:    "Hello World",
		Slug:     "hello-world",
		Content:  "body",
	}))

	slug, err = uniquePostSlug(ctx, repo, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", slug)

	require.NoError(t, repo.Create(ctx, &model.Post{
		AuthorID: author.ID,
		Title:    "Hello World",
		Slug:     "hello-world-1",
		Content:  "body",
	}))

	slug, err = uniquePostSlug(ctx, repo, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", slug)
}
