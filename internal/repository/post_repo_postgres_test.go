//go:build postgres

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

// These tests cover the EXTRACT archive queries and ILIKE search, which
// sqlite cannot run. Point TEST_POSTGRES_DSN at a scratch database and run
// with -tags postgres.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Profile{},
		&model.Category{},
		&model.Tag{},
		&model.Post{},
		&model.Comment{},
		&model.Message{},
		&model.Subscription{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE roles, users, profiles, categories, tags, posts, comments, messages, subscriptions RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func seedArchivePosts(t *testing.T, db *gorm.DB, now time.Time) uuid.UUID {
	t.Helper()

	author := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "not-a-real-hash"}
	require.NoError(t, db.Create(author).Error)

	create := func(slug string, publishedAt *time.Time, deletedAt *time.Time, published bool) {
		post := &model.Post{
			AuthorID:    author.ID,
			Title:       slug,
			Slug:        slug,
			Content:     "body",
			IsPublished: published,
			PublishedAt: publishedAt,
			DeletedAt:   deletedAt,
		}
		require.NoError(t, db.Create(post).Error)
	}

	march1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	march2 := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	february := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)

	create("march-one", &march1, nil, true)
	create("march-two", &march2, nil, true)
	create("february-one", &february, nil, true)
	create("scheduled", &future, nil, true)
	create("deleted", &march1, &now, true)
	create("draft", nil, nil, false)

	return author.ID
}

func TestArchiveMonthsGroupsByPublishMonth(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	seedArchivePosts(t, db, now)

	months, err := repo.ArchiveMonths(ctx, now)
	require.NoError(t, err)
	require.Len(t, months, 2)

	// Newest month first; scheduled, deleted and draft posts do not count.
	assert.Equal(t, ArchiveMonth{Year: 2026, Month: 3, Count: 2}, months[0])
	assert.Equal(t, ArchiveMonth{Year: 2026, Month: 2, Count: 1}, months[1])
}

func TestFindByMonthFiltersToMonth(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	seedArchivePosts(t, db, now)

	posts, total, err := repo.FindByMonth(ctx, 2026, 3, 0, 10, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, "march-two", posts[0].Slug)
	assert.Equal(t, "march-one", posts[1].Slug)

	_, total, err = repo.FindByMonth(ctx, 2025, 3, 0, 10, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestFindVisibleSearchIsCaseInsensitive(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	seedArchivePosts(t, db, now)

	posts, total, err := repo.FindVisible(ctx, PostFilter{Search: "MARCH", Limit: 10}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)
}
