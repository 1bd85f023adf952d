package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every sqlite :memory: connection gets its own database, so the pool
	// must stay at one connection.
	sqlDB.SetMaxOpenConns(1)

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

	roles := []model.Role{
		{Name: "admin", Description: "Site administrator"},
		{Name: "author", Description: "Regular author"},
	}
	for i := range roles {
		require.NoError(t, db.Create(&roles[i]).Error)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, roleName string) *model.User {
	t.Helper()

	var role model.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		RoleID:       &role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: user.ID}).Error)

	user.Role = role
	return user
}

func newTestPostService(db *gorm.DB) PostService {
	postRepo := repository.NewPostRepository(db)
	return NewPostService(
		postRepo,
		repository.NewCommentRepository(db),
		repository.NewTaxonomyRepository(db),
		repository.NewUserRepository(db),
		nil,
		NewViewService(nil, postRepo),
	)
}
