package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

func TestCategoryPostCountTracksVisibility(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db))
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, dto.CreateTaxonomyRequest{Name: "Go"})
	require.NoError(t, err)

	makePost := func(title string, publish bool) *dto.PostResponse {
		post, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
			Title:      title,
			Content:    "body",
			CategoryID: category.ID.String(),
			Publish:    publish,
		})
		require.NoError(t, err)
		return post
	}

	makePost("One", true)
	makePost("Two", true)
	makePost("Three", true)
	makePost("Draft", false)
	deleted := makePost("Gone", true)
	require.NoError(t, postSvc.SoftDeletePost(ctx, author.ID, deleted.Slug))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(3), categories[0].PostCount)
}

func TestTopCategoriesExcludesEmptyOnes(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	svc := NewTaxonomyService(taxonomyRepo)
	ctx := context.Background()

	active, err := svc.CreateCategory(ctx, dto.CreateTaxonomyRequest{Name: "Active"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, dto.CreateTaxonomyRequest{Name: "Empty"})
	require.NoError(t, err)

	_, err = postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:      "Something",
		Content:    "body",
		CategoryID: active.ID.String(),
		Publish:    true,
	})
	require.NoError(t, err)

	top, err := taxonomyRepo.TopCategories(ctx, 5, time.Now())
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "active", top[0].Slug)
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db))
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, dto.CreateTaxonomyRequest{Name: "Go Tips"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CreateTaxonomyRequest{Name: "go tips"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestTagPostCountFollowsAssignments(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "alice", "author")
	postSvc := newTestPostService(db)
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db))
	ctx := context.Background()

	_, err := postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Tagged",
		Content: "body",
		Tags:    []string{"Go", "Testing"},
		Publish: true,
	})
	require.NoError(t, err)

	_, err = postSvc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		Title:   "Tagged Again",
		Content: "body",
		Tags:    []string{"Go"},
		Publish: true,
	})
	require.NoError(t, err)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	counts := map[string]int64{}
	for _, tag := range tags {
		counts[tag.Slug] = tag.PostCount
	}
	assert.Equal(t, int64(2), counts["go"])
	assert.Equal(t, int64(1), counts["testing"])

	var tagModel model.Tag
	require.NoError(t, db.Where("slug = ?", "go").First(&tagModel).Error)
	assert.Equal(t, "Go", tagModel.Name)
}
