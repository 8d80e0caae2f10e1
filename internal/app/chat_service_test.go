package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/model"
	"llm-workbench/internal/storage"
	"llm-workbench/internal/store"
)

func newChatService(t *testing.T, provider *providerStub) *ChatService {
	t.Helper()
	blobs, creds, cfg := testDeps(t, provider)
	conversations := store.NewCollectionStore[model.Conversation](blobs, storage.KeyConversations)
	return NewChatService(conversations, creds, ai.NewClient(), cfg)
}

func TestCreateConversationDefaultsTitle(t *testing.T) {
	svc := newChatService(t, newProviderStub(t))

	conv, err := svc.CreateConversation("  ")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", conv.Title)
	assert.Empty(t, conv.Messages)

	selected, ok := svc.SelectedConversation()
	require.True(t, ok)
	assert.Equal(t, conv.ID, selected.ID)
}

func TestSendMessageDerivesTitleAfterFirstReply(t *testing.T) {
	provider := newProviderStub(t, "first reply", "second reply")
	svc := newChatService(t, provider)

	conv, err := svc.CreateConversation("")
	require.NoError(t, err)

	long := strings.Repeat("a", 39) + "bXY" // 42 runes, title keeps the first 40
	res, err := svc.SendMessage(context.Background(), conv.ID, long)
	require.NoError(t, err)

	wantTitle := strings.Repeat("a", 39) + "b"
	assert.Equal(t, wantTitle, res.Conversation.Title)
	require.Len(t, res.Conversation.Messages, 2)
	assert.Equal(t, model.RoleUser, res.Conversation.Messages[0].Role)
	assert.Equal(t, long, res.Conversation.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, res.Conversation.Messages[1].Role)
	assert.Equal(t, "first reply", res.Conversation.Messages[1].Content)

	// The title is frozen after the first exchange.
	res, err = svc.SendMessage(context.Background(), conv.ID, "a different opener")
	require.NoError(t, err)
	assert.Equal(t, wantTitle, res.Conversation.Title)
	assert.Len(t, res.Conversation.Messages, 4)
}

func TestSendMessagePromptCarriesFullHistory(t *testing.T) {
	provider := newProviderStub(t, "ack one", "ack two")
	svc := newChatService(t, provider)

	conv, err := svc.CreateConversation("history")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, "turn one")
	require.NoError(t, err)
	res, err := svc.SendMessage(context.Background(), conv.ID, "turn two")
	require.NoError(t, err)

	last := provider.lastRequest(t)
	require.Len(t, last.Messages, 3)
	assert.Equal(t, ai.RoleUser, last.Messages[0].Role)
	assert.Equal(t, "turn one", last.Messages[0].Content)
	assert.Equal(t, ai.RoleAssistant, last.Messages[1].Role)
	assert.Equal(t, "ack one", last.Messages[1].Content)
	assert.Equal(t, "turn two", last.Messages[2].Content)

	require.NotNil(t, last.Temperature)
	assert.Equal(t, 0.7, *last.Temperature)
	assert.Equal(t, "llama-3.3-70b-versatile", last.Model)

	assert.NotContains(t, res.LLMRequest.APIKeyMasked, testAPIKey[4:len(testAPIKey)-4])
	assert.True(t, strings.HasPrefix(res.LLMRequest.APIKeyMasked, testAPIKey[:4]))
}

func TestSendMessageEmptyContent(t *testing.T) {
	svc := newChatService(t, newProviderStub(t))
	conv, err := svc.CreateConversation("")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), conv.ID, "   \n\t")
	assert.ErrorIs(t, err, ErrMessageEmpty)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	svc := newChatService(t, newProviderStub(t))
	_, err := svc.SendMessage(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestSendMessageWithoutCredential(t *testing.T) {
	provider := newProviderStub(t)
	blobs, err := storage.New(t.TempDir())
	require.NoError(t, err)
	creds := store.NewCredentialStore(blobs) // nothing saved
	conversations := store.NewCollectionStore[model.Conversation](blobs, storage.KeyConversations)
	svc := NewChatService(conversations, creds, ai.NewClient(), ai.ChatConfig{BaseURL: provider.srv.URL, Model: "m"})

	conv, err := svc.CreateConversation("")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, "hello")
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Empty(t, provider.recorded())
}

func TestSendMessageKeepsUserMessageOnProviderFailure(t *testing.T) {
	provider := newProviderStub(t)
	provider.failWith(500, `{"error":{"message":"model is overloaded"}}`)
	svc := newChatService(t, provider)

	conv, err := svc.CreateConversation("")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, "will fail")

	var compErr *ai.CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, ai.FailureProvider, compErr.Kind)

	// The user message is already committed; the title is not, since the
	// exchange never completed.
	after, ok := svc.conversations.Get(conv.ID)
	require.True(t, ok)
	require.Len(t, after.Messages, 1)
	assert.Equal(t, "will fail", after.Messages[0].Content)
	assert.Equal(t, "New Chat", after.Title)
}

func TestRemoveConversationNeedsConfirmation(t *testing.T) {
	svc := newChatService(t, newProviderStub(t))
	conv, err := svc.CreateConversation("keep me")
	require.NoError(t, err)

	err = svc.RemoveConversation(conv.ID, false)
	assert.ErrorIs(t, err, store.ErrNotConfirmed)
	assert.Len(t, svc.ListConversations(), 1)

	require.NoError(t, svc.RemoveConversation(conv.ID, true))
	assert.Empty(t, svc.ListConversations())
}
