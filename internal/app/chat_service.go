package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/model"
	"llm-workbench/internal/store"
)

const (
	defaultConversationTitle = "New Chat"
	titleMaxRunes            = 40
	chatTemperature          = 0.7
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
)

// ChatService owns the multi-turn chat mode: the conversation collection and
// the send path against the completion provider.
type ChatService struct {
	conversations *store.CollectionStore[model.Conversation]
	credentials   *store.CredentialStore
	llmClient     *ai.Client
	llm           ai.ChatConfig
}

func NewChatService(
	conversations *store.CollectionStore[model.Conversation],
	credentials *store.CredentialStore,
	llmClient *ai.Client,
	llm ai.ChatConfig,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		credentials:   credentials,
		llmClient:     llmClient,
		llm:           llm,
	}
}

// CreateConversation prepends an empty conversation and selects it.
func (s *ChatService) CreateConversation(title string) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultConversationTitle
	}

	conv := model.Conversation{
		ID:       model.NewID(),
		Title:    title,
		Messages: []model.Message{},
	}
	if err := s.conversations.Insert(conv); err != nil {
		return nil, err
	}
	s.conversations.Select(conv.ID)
	return &conv, nil
}

func (s *ChatService) ListConversations() []model.Conversation {
	return s.conversations.Items()
}

func (s *ChatService) SelectConversation(id string) {
	s.conversations.Select(id)
}

func (s *ChatService) SelectedConversation() (model.Conversation, bool) {
	return s.conversations.Selected()
}

func (s *ChatService) RemoveConversation(id string, confirmed bool) error {
	return s.conversations.Remove(id, confirmed)
}

type SendMessageResult struct {
	Conversation model.Conversation `json:"conversation"`
	Messages     []model.Message    `json:"messages"`
	LLMRequest   LLMRequestLog      `json:"llm_request"`
}

// LLMRequestLog mirrors what was sent to the provider, key masked.
type LLMRequestLog struct {
	Model        string           `json:"model"`
	APIKeyMasked string           `json:"api_key_masked"`
	Messages     []ai.ChatMessage `json:"messages"`
}

// SendMessage appends the user message, sends the full history to the
// provider, appends the reply, and on the first completed exchange derives
// the conversation title from the user message. The user message stays
// committed even when the provider call fails.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, content string) (*SendMessageResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	conv, ok := s.conversations.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	cfg := s.llm
	cfg.APIKey = s.credentials.Current()
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}

	firstExchange := len(conv.Messages) == 0

	userMessage := model.Message{
		ID:      model.NewID(),
		Role:    model.RoleUser,
		Content: content,
	}
	if err := s.conversations.Update(conversationID, func(c model.Conversation) model.Conversation {
		c.Messages = appendMessage(c.Messages, userMessage)
		return c
	}); err != nil {
		return nil, err
	}

	// Prompt from the committed state, not the snapshot taken above, so a
	// concurrent send that already landed is part of the history.
	current, ok := s.conversations.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}
	prompt := make([]ai.ChatMessage, 0, len(current.Messages))
	for _, m := range current.Messages {
		prompt = append(prompt, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}

	reply, err := s.llmClient.Complete(ctx, cfg, prompt, ai.CompleteOptions{
		Temperature: ai.Temperature(chatTemperature),
	})
	if err != nil {
		slog.Warn("chat completion failed", "conversation_id", conversationID, "error", err)
		return nil, err
	}

	assistantMessage := model.Message{
		ID:      model.NewID(),
		Role:    model.RoleAssistant,
		Content: reply,
	}
	if err := s.conversations.Update(conversationID, func(c model.Conversation) model.Conversation {
		c.Messages = appendMessage(c.Messages, assistantMessage)
		if firstExchange {
			c.Title = titleFromContent(content)
		}
		return c
	}); err != nil {
		return nil, err
	}

	final, _ := s.conversations.Get(conversationID)
	return &SendMessageResult{
		Conversation: final,
		Messages:     []model.Message{userMessage, assistantMessage},
		LLMRequest: LLMRequestLog{
			Model:        cfg.Model,
			APIKeyMasked: s.credentials.Masked(),
			Messages:     prompt,
		},
	}, nil
}

func appendMessage(messages []model.Message, msg model.Message) []model.Message {
	next := make([]model.Message, 0, len(messages)+1)
	next = append(next, messages...)
	return append(next, msg)
}

// titleFromContent takes the leading runes of the first user message.
func titleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) > titleMaxRunes {
		runes = runes[:titleMaxRunes]
	}
	return string(runes)
}
