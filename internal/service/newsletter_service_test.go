package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

func TestSubscribeOutcomes(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewNewsletterRepository(db)
	svc := NewNewsletterService(repo)
	ctx := context.Background()

	outcome, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubscribed, outcome)

	outcome, err = svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySubscribed, outcome)

	require.NoError(t, repo.SetActive(ctx, "reader@example.com", false))

	outcome, err = svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeResubscribed, outcome)

	sub, err := repo.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsletterService(repository.NewNewsletterRepository(db))
	ctx := context.Background()

	outcome, err := svc.Subscribe(ctx, "  Reader@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubscribed, outcome)

	outcome, err = svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySubscribed, outcome)

	var count int64
	require.NoError(t, db.Model(&model.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
