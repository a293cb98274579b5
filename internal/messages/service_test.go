package message

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

type fakeMessageNotifier struct {
	calls int
	sent  bool
}

func (f *fakeMessageNotifier) ContactMessage(context.Context, *models.ContactMessage) bool {
	f.calls++
	return f.sent
}

func newMessageTestService(t *testing.T, sent bool) (Service, *Repository, *fakeMessageNotifier) {
	t.Helper()
	repo := NewRepository(setupMessagesTestDB(t))
	notifier := &fakeMessageNotifier{sent: sent}
	svc, err := NewService(repo, notifier)
	require.NoError(t, err)
	return svc, repo, notifier
}

func TestServiceSubmitMessageRelaysToTelegram(t *testing.T) {
	svc, repo, notifier := newMessageTestService(t, true)
	ctx := context.Background()

	created, err := svc.SubmitMessage(ctx, SubmitMessageInput{
		Name: "سارة",
		Body: "هل يتوفر لون رمادي؟",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.True(t, created.TelegramSent)
	assert.Equal(t, enums.MessageStatusNew, created.Status)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.TelegramSent)
}

func TestServiceSubmitMessageSurvivesFailedRelay(t *testing.T) {
	svc, repo, _ := newMessageTestService(t, false)
	ctx := context.Background()

	created, err := svc.SubmitMessage(ctx, SubmitMessageInput{
		Name: "سارة",
		Body: "رسالة",
	})
	require.NoError(t, err, "failed relay must not lose the message")
	assert.False(t, created.TelegramSent)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.TelegramSent)
}

func TestServiceSubmitMessageValidates(t *testing.T) {
	svc, _, notifier := newMessageTestService(t, true)
	ctx := context.Background()

	_, err := svc.SubmitMessage(ctx, SubmitMessageInput{Name: " ", Body: "رسالة"})
	require.Error(t, err)
	_, err = svc.SubmitMessage(ctx, SubmitMessageInput{Name: "سارة", Body: "  "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Zero(t, notifier.calls, "invalid submissions never reach telegram")
}

func TestServiceReplyMarksReplied(t *testing.T) {
	svc, repo, _ := newMessageTestService(t, true)
	ctx := context.Background()
	msg := newMessage(t, repo.db, enums.MessageStatusRead, time.Now())

	replied, err := svc.ReplyToMessage(ctx, msg.ID, "نعم متوفر")
	require.NoError(t, err)
	assert.Equal(t, enums.MessageStatusReplied, replied.Status)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "نعم متوفر", *replied.Reply)
	assert.NotNil(t, replied.RepliedAt)
}

func TestServiceUpdateStatusValidatesEnum(t *testing.T) {
	svc, repo, _ := newMessageTestService(t, true)
	ctx := context.Background()
	msg := newMessage(t, repo.db, enums.MessageStatusNew, time.Now())

	_, err := svc.UpdateStatus(ctx, msg.ID, enums.MessageStatus("bogus"))
	require.Error(t, err)

	updated, err := svc.UpdateStatus(ctx, msg.ID, enums.MessageStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, enums.MessageStatusArchived, updated.Status)
}
