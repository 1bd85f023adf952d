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

func TestSendMessageValidation(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "author")
	createTestUser(t, db, "bob", "author")
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), nil, 0)
	ctx := context.Background()

	_, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{
		ReceiverUsername: "alice",
		Content:          "talking to myself",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.Send(ctx, alice.ID, dto.SendMessageRequest{
		ReceiverUsername: "nobody",
		Content:          "hello?",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	msg, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{
		ReceiverUsername: "bob",
		Subject:          "hi",
		Content:          "hello bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.Sender.Username)
	assert.Equal(t, "bob", msg.Receiver.Username)
	assert.False(t, msg.IsRead)
}

func TestMarkAsReadIsReceiverOnlyAndIdempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "author")
	bob := createTestUser(t, db, "bob", "author")
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), nil, 0)
	ctx := context.Background()

	msg, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{
		ReceiverUsername: "bob",
		Content:          "hello bob",
	})
	require.NoError(t, err)

	err = svc.MarkAsRead(ctx, alice.ID, msg.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.MarkAsRead(ctx, bob.ID, msg.ID))
	require.NoError(t, svc.MarkAsRead(ctx, bob.ID, msg.ID))

	got, err := svc.Get(ctx, bob.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	count, err := svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMessageIsPerParty(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "author")
	bob := createTestUser(t, db, "bob", "author")
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), nil, 0)
	ctx := context.Background()

	msg, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{
		ReceiverUsername: "bob",
		Content:          "hello bob",
	})
	require.NoError(t, err)

	// The sender deletes their copy.
	require.NoError(t, svc.Delete(ctx, alice.ID, msg.ID))

	sent, err := svc.Sent(ctx, alice.ID, dto.MessageFilter{})
	require.NoError(t, err)
	assert.Empty(t, sent.Data)

	_, err = svc.Get(ctx, alice.ID, msg.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// The receiver's copy is untouched.
	inbox, err := svc.Inbox(ctx, bob.ID, dto.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, inbox.Data, 1)

	got, err := svc.Get(ctx, bob.ID, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello bob", got.Content)
}

func TestUnreadCountOnlyCountsUndeletedInbox(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "author")
	bob := createTestUser(t, db, "bob", "author")
	svc := NewMessageService(repository.NewMessageRepository(db), repository.NewUserRepository(db), nil, 0)
	ctx := context.Background()

	first, err := svc.Send(ctx, alice.ID, dto.SendMessageRequest{ReceiverUsername: "bob", Content: "one"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice.ID, dto.SendMessageRequest{ReceiverUsername: "bob", Content: "two"})
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.Delete(ctx, bob.ID, first.ID))

	count, err = svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
