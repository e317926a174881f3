package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestStartConversationBumpsRecipientUnread(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	conversation, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "Is the tour available next Friday?",
	})
	require.NoError(t, err)

	var refreshed models.Conversation
	require.NoError(t, env.db.First(&refreshed, conversation.ID).Error)
	assert.Equal(t, 1, refreshed.UnreadCountFor(provider.ID))
	assert.Zero(t, refreshed.UnreadCountFor(traveler.ID))
	assert.Equal(t, "Is the tour available next Friday?", refreshed.LastMessagePreview)
	assert.NotNil(t, refreshed.LastMessageAt)
}

func TestStartConversationReusesExisting(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	first, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "hello",
	})
	require.NoError(t, err)

	second, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "hello again",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLongMessagePreviewKeepsValidUTF8(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	// One leading ASCII byte pushes every following two-byte rune onto an
	// odd offset, so a naive byte cut at 120 would land mid-rune.
	body := "a" + strings.Repeat("é", 100)
	conversation, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: body,
	})
	require.NoError(t, err)

	var refreshed models.Conversation
	require.NoError(t, env.db.First(&refreshed, conversation.ID).Error)
	assert.True(t, utf8.ValidString(refreshed.LastMessagePreview))
	assert.LessOrEqual(t, len(refreshed.LastMessagePreview), 120)
	assert.True(t, strings.HasPrefix(body, refreshed.LastMessagePreview))
}

func TestSendMessageByOutsiderFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	stranger := env.createUser(t, models.UserTypeTraveler)

	conversation, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "hello",
	})
	require.NoError(t, err)

	_, err = env.conversations.SendMessage(context.Background(), service.SendMessageCommand{
		SenderID:        stranger.ID,
		ConversationRef: conversation.Token,
		Body:            "let me in",
	})
	assert.ErrorIs(t, err, models.ErrConversationNotFound)
}

func TestMarkReadClearsOnlyReadersCounter(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	conversation, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "question",
	})
	require.NoError(t, err)

	// Provider replies, so both parties have one unread.
	_, err = env.conversations.SendMessage(context.Background(), service.SendMessageCommand{
		SenderID:        provider.ID,
		ConversationRef: conversation.Token,
		Body:            "answer",
	})
	require.NoError(t, err)

	require.NoError(t, env.conversations.MarkRead(context.Background(), provider.ID, conversation.Token))

	var refreshed models.Conversation
	require.NoError(t, env.db.First(&refreshed, conversation.ID).Error)
	assert.Zero(t, refreshed.UnreadCountFor(provider.ID))
	assert.Equal(t, 1, refreshed.UnreadCountFor(traveler.ID))
}

func TestMessagesVisibleToBothParties(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)

	conversation, err := env.conversations.Start(context.Background(), service.StartConversationCommand{
		TravelerID:   traveler.ID,
		ProviderID:   provider.ID,
		FirstMessage: "first",
	})
	require.NoError(t, err)
	_, err = env.conversations.SendMessage(context.Background(), service.SendMessageCommand{
		SenderID:        provider.ID,
		ConversationRef: conversation.Token,
		Body:            "second",
	})
	require.NoError(t, err)

	for _, userID := range []uint{traveler.ID, provider.ID} {
		messages, total, err := env.conversations.Messages(context.Background(), userID, conversation.Token, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, messages, 2)
	}
}
